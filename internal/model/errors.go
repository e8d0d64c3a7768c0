package model

import (
	"errors"
	"strings"
)

// Pipeline failure taxonomy. Stages wrap causes with fmt.Errorf("%w: %w", ErrX, cause)
// so callers can match with errors.Is and still see the underlying message.
var (
	ErrInvalidSymbol    = errors.New("invalid or unsupported symbol")
	ErrNoData           = errors.New("no data returned for symbol")
	ErrFetchFailed      = errors.New("series fetch failed")
	ErrInvalidRange     = errors.New("start date must not be after end date")
	ErrEmptyRange       = errors.New("no data available for the selected date range")
	ErrInsufficientData = errors.New("not enough data to fit the forecast model")
	ErrModelFitFailed   = errors.New("forecast model fit failed")
	ErrNewsFetchFailed  = errors.New("news fetch failed")
	ErrInvalidHorizon   = errors.New("forecast horizon out of range")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrInvalidSymbol, "invalid_symbol"},
	{ErrNoData, "no_data"},
	{ErrFetchFailed, "fetch_failed"},
	{ErrInvalidRange, "invalid_range"},
	{ErrEmptyRange, "empty_range"},
	{ErrInsufficientData, "insufficient_data"},
	{ErrModelFitFailed, "model_fit_failed"},
	{ErrNewsFetchFailed, "news_fetch_failed"},
	{ErrInvalidHorizon, "invalid_horizon"},
}

// Kind returns a stable identifier for err, or "internal" when it is not
// part of the taxonomy.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "internal"
}

// IsSoft reports whether err is a recoverable condition that should be shown
// as a warning instead of failing the request.
func IsSoft(err error) bool {
	return errors.Is(err, ErrEmptyRange) || errors.Is(err, ErrNewsFetchFailed)
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

// Redact masks secret in err's message. Credentials such as API keys and bot
// tokens travel in request URLs, so transport errors quote them.
func Redact(err error, secret string) error {
	if err == nil || secret == "" {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), secret, "***"), err: err}
}
