package scheduler

import (
	"context"
	"fmt"
	"html"
	"log"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"

	"TradeTrends/internal/collector"
	"TradeTrends/internal/model"
	"TradeTrends/internal/news"
	"TradeTrends/internal/notifier"
	"TradeTrends/internal/pipeline"
	"TradeTrends/internal/recorder"
)

// Runner executes one pipeline refresh.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Report, error)
}

// Sender delivers a formatted message.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// Scheduler manages cron tasks and chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Pipeline  Runner
	News      news.Source
	Memo      collector.Memo
	Notifier  Sender
	Recorder  recorder.Recorder
	Watchlist []string
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler. A nil notifier only logs.
func NewScheduler(ctx context.Context, p Runner, src news.Source, memo collector.Memo, sender Sender, rec recorder.Recorder, watchlist []string) *Scheduler {
	if memo == nil {
		memo = collector.NoopMemo{}
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Pipeline:  p,
		News:      src,
		Memo:      memo,
		Notifier:  sender,
		Recorder:  rec,
		Watchlist: watchlist,
		Ctx:       ctx,
	}
}

// RegisterAll registers the digest and memo purge tasks.
func (s *Scheduler) RegisterAll(digestCron, purgeCron string) error {
	if _, err := s.Cron.AddFunc(digestCron, s.digestTask); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	if _, err := s.Cron.AddFunc(purgeCron, s.purgeTask); err != nil {
		return fmt.Errorf("register purge task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunDigestNow executes the digest task immediately.
func (s *Scheduler) RunDigestNow() {
	s.digestTask()
}

func (s *Scheduler) digestTask() {
	log.Printf("[INFO] running digest for %d symbols", len(s.Watchlist))
	for _, sym := range s.Watchlist {
		if s.Ctx.Err() != nil {
			return
		}
		rep, err := s.Pipeline.Run(s.Ctx, pipeline.Request{Symbol: sym})
		if err != nil {
			log.Printf("[ERROR] digest %s: %v", sym, err)
			s.trySend(notifier.FormatFailure(sym, err))
			continue
		}
		s.trySend(notifier.FormatDigest(rep))
	}
}

func (s *Scheduler) purgeTask() {
	if n := s.Memo.Purge(); n > 0 {
		log.Printf("[INFO] purged %d expired series", n)
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.HelpText()
	}
	// Telegram appends @botname to commands in groups.
	cmd := strings.ToLower(strings.SplitN(fields[0], "@", 2)[0])
	args := fields[1:]

	switch cmd {
	case "/forecast":
		return s.forecastCommand(args)
	case "/news":
		if len(args) == 0 {
			return "Usage: /news &lt;symbol&gt;"
		}
		sym := model.ResolvePreset(strings.Join(args, " "))
		if s.News == nil {
			return "News is not configured."
		}
		items, err := s.News.Headlines(s.Ctx, sym)
		if err != nil {
			log.Printf("[WARN] news command %s: %v", sym, err)
			return fmt.Sprintf("⚠️ Could not fetch news for %s.", html.EscapeString(sym))
		}
		return notifier.FormatNews(sym, items)
	case "/presets":
		return notifier.FormatPresets()
	case "/runs":
		runs, err := s.Recorder.RecentRuns(10)
		if err != nil {
			log.Printf("[ERROR] recent runs: %v", err)
			return "⚠️ Could not load run history."
		}
		return notifier.FormatRuns(runs)
	default:
		return notifier.HelpText()
	}
}

// forecastCommand parses "/forecast <symbol|preset> [years]". Preset names
// may contain spaces, so a trailing integer is taken as the horizon.
func (s *Scheduler) forecastCommand(args []string) string {
	years := 0
	if n := len(args); n > 1 {
		if v, err := strconv.Atoi(args[n-1]); err == nil {
			years = v
			args = args[:n-1]
		}
	}
	rep, err := s.Pipeline.Run(s.Ctx, pipeline.Request{Symbol: strings.Join(args, " "), Years: years})
	if err != nil {
		return notifier.FormatFailure("", err)
	}
	return notifier.FormatDigest(rep)
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		log.Printf("[INFO] notifier disabled, dropping message:\n%s", text)
		return
	}
	if err := s.Notifier.Send(s.Ctx, text); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
