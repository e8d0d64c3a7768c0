package collector

import (
	"strings"
	"time"

	"github.com/scmhub/calendar"
)

type exchangeInfo struct {
	mic      string
	timezone string
	open     int // minutes after local midnight
	close    int
}

// Symbol suffix to exchange. Symbols without a suffix trade in New York.
var exchanges = map[string]exchangeInfo{
	"":    {"xnys", "America/New_York", 9*60 + 30, 16 * 60},
	".NS": {"xnse", "Asia/Kolkata", 9*60 + 15, 15*60 + 30},
	".BO": {"xbom", "Asia/Kolkata", 9*60 + 15, 15*60 + 30},
	".L":  {"xlon", "Europe/London", 8 * 60, 16*60 + 30},
	".PA": {"xpar", "Europe/Paris", 9 * 60, 17*60 + 30},
	".DE": {"xfra", "Europe/Berlin", 9 * 60, 17*60 + 30},
	".T":  {"xtks", "Asia/Tokyo", 9 * 60, 15 * 60},
	".HK": {"xhkg", "Asia/Hong_Kong", 9*60 + 30, 16 * 60},
	".AX": {"xasx", "Australia/Sydney", 10 * 60, 16 * 60},
	".TO": {"xtse", "America/Toronto", 9*60 + 30, 16 * 60},
}

// MarketSession answers whether a symbol's exchange is trading at a given time.
type MarketSession struct {
	MIC      string
	Calendar *calendar.Calendar
	Location *time.Location
	info     exchangeInfo
}

// SessionFor resolves the exchange calendar from the symbol suffix.
// When the calendar library has no entry for the exchange, a weekday and
// regular-hours check in the exchange time zone is used instead.
func SessionFor(symbol string) *MarketSession {
	suffix := ""
	if i := strings.LastIndex(symbol, "."); i >= 0 {
		suffix = strings.ToUpper(symbol[i:])
	}
	info, ok := exchanges[suffix]
	if !ok {
		info = exchanges[""]
	}

	s := &MarketSession{MIC: info.mic, info: info}
	if cal := calendar.GetCalendar(info.mic); cal != nil {
		s.Calendar = cal
		s.Location = cal.Loc
	}
	if s.Location == nil {
		loc, err := time.LoadLocation(info.timezone)
		if err != nil {
			loc = time.UTC
		}
		s.Location = loc
	}
	return s
}

// IsOpen reports whether the market is in its regular session at t.
func (s *MarketSession) IsOpen(t time.Time) bool {
	t = t.In(s.Location)
	if s.Calendar != nil {
		return s.Calendar.IsOpen(t)
	}
	if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	minute := t.Hour()*60 + t.Minute()
	return minute >= s.info.open && minute < s.info.close
}
