package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"TradeTrends/internal/calculator"
	"TradeTrends/internal/model"
	"TradeTrends/internal/pipeline"
)

var errBadRequest = errors.New("bad request")

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidSymbol), errors.Is(err, model.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, model.ErrInvalidRange), errors.Is(err, model.ErrInvalidHorizon), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrFetchFailed):
		return http.StatusBadGateway
	case errors.Is(err, model.ErrNewsFetchFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	kind := model.Kind(err)
	if errors.Is(err, errBadRequest) {
		kind = "bad_request"
	}
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
}

func parseDate(c *gin.Context, key string) (time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", errBadRequest, key)
	}
	return t, nil
}

func parseWindow(c *gin.Context) (model.DateRange, error) {
	start, err := parseDate(c, "start")
	if err != nil {
		return model.DateRange{}, err
	}
	end, err := parseDate(c, "end")
	if err != nil {
		return model.DateRange{}, err
	}
	return model.DateRange{Start: start, End: end}, nil
}

func (s *Server) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"memo_entries": s.Collector.Memo.Len(),
	})
}

func (s *Server) getPresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"default": model.DefaultSymbol,
		"presets": model.Presets,
	})
}

func (s *Server) getSeries(c *gin.Context) {
	window, err := parseWindow(c)
	if err != nil {
		writeError(c, err)
		return
	}
	symbol := model.ResolvePreset(c.Param("symbol"))
	series, err := s.Collector.Fetch(c.Request.Context(), symbol, time.Time{}, time.Time{})
	if err != nil {
		writeError(c, err)
		return
	}

	resp := gin.H{
		"symbol": series.Symbol,
		"bounds": model.DateRange{Start: series.MinDate(), End: series.MaxDate()},
		"window": calculator.ClampRange(series, window),
	}
	filtered, err := calculator.FilterRange(series, window)
	switch {
	case errors.Is(err, model.ErrEmptyRange):
		resp["bars"] = []model.OHLCV{}
		resp["warning"] = err.Error()
	case err != nil:
		writeError(c, err)
		return
	default:
		resp["bars"] = filtered.Bars
		if sum, err := calculator.Summarize(filtered); err == nil {
			resp["summary"] = sum
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) getForecast(c *gin.Context) {
	window, err := parseWindow(c)
	if err != nil {
		writeError(c, err)
		return
	}
	years := 0
	if v := c.Query("years"); v != "" {
		if years, err = strconv.Atoi(v); err != nil {
			writeError(c, fmt.Errorf("%w: years must be an integer", errBadRequest))
			return
		}
	}

	rep, err := s.Pipeline.Run(c.Request.Context(), pipeline.Request{
		Symbol: c.Param("symbol"),
		Start:  window.Start,
		End:    window.End,
		Years:  years,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (s *Server) getNews(c *gin.Context) {
	symbol := model.ResolvePreset(c.Param("symbol"))
	resp := gin.H{"symbol": symbol, "items": []model.NewsItem{}}
	if s.News == nil {
		resp["warning"] = "news source not configured"
		c.JSON(http.StatusOK, resp)
		return
	}
	items, err := s.News.Headlines(c.Request.Context(), symbol)
	if items != nil {
		resp["items"] = items
	}
	if err != nil {
		log.Printf("[WARN] news %s: %v", symbol, err)
		resp["warning"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) getSnapshot(c *gin.Context) {
	snap, err := s.Collector.Snapshot(c.Request.Context(), model.ResolvePreset(c.Param("symbol")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) getRuns(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(c, fmt.Errorf("%w: limit must be a positive integer", errBadRequest))
			return
		}
		limit = min(n, 500)
	}
	runs, err := s.Recorder.RecentRuns(limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}
