package model

import "time"

// RunStatus is the terminal state of a pipeline run.
type RunStatus string

const (
	RunOK            RunStatus = "OK"
	RunEmptyRange    RunStatus = "EMPTY_RANGE"
	RunForecastError RunStatus = "FORECAST_ERROR"
	RunFailed        RunStatus = "FAILED"
)

// RunRecord is the journal entry of one pipeline run.
type RunRecord struct {
	RunID     string    `json:"run_id"`
	Symbol    string    `json:"symbol"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Years     int       `json:"years"`
	Rows      int       `json:"rows"`
	Status    RunStatus `json:"status"`
	Warnings  int       `json:"warnings"`
	LastYHat  float64   `json:"last_yhat"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
