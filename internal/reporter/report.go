package reporter

import (
	"time"

	"github.com/roomkangali/payloadgen/internal/runner"

	"github.com/google/uuid"
)

// CheckResult is one verified check in the session report.
type CheckResult struct {
	Name          string `json:"name"`
	Vulnerability string `json:"vulnerability,omitempty"`
	TemplateName  string `json:"template,omitempty"`
	Payload       string `json:"payload,omitempty"`
	UsesCallback  bool   `json:"uses_callback"`
	Executed      bool   `json:"executed"`
	Error         string `json:"error,omitempty"`
}

// SessionSummary contains metadata and totals for one verification session.
type SessionSummary struct {
	SessionID        string `json:"session_id"`
	ToolVersion      string `json:"tool_version"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	TotalDuration    string `json:"total_duration"`
	CallbackProvider string `json:"callback_provider,omitempty"`
	TotalChecks      int    `json:"total_checks"`
	TotalExecuted    int    `json:"total_executed"`
}

// Report is the data structure for a verification session's results.
type Report struct {
	SessionSummary SessionSummary `json:"session_summary"`
	Results        []CheckResult  `json:"results"`

	startTime time.Time
}

// NewReport creates a new report instance with a fresh session ID.
// The Results slice is initialized so it serializes as [] instead of null.
func NewReport(version string, startTime time.Time) *Report {
	return &Report{
		SessionSummary: SessionSummary{
			SessionID:   uuid.NewString(),
			ToolVersion: version,
			StartTime:   startTime.Format(time.RFC3339),
		},
		Results:   make([]CheckResult, 0),
		startTime: startTime,
	}
}

// AddResults appends runner results to the report.
func (r *Report) AddResults(results []runner.Result) {
	for _, res := range results {
		entry := CheckResult{
			Name:          res.Check.Name,
			Vulnerability: res.Check.Vulnerability,
			TemplateName:  res.TemplateName,
			Payload:       res.Payload,
			UsesCallback:  res.UsesChannel,
			Executed:      res.Executed,
		}
		if res.Err != nil {
			entry.Error = res.Err.Error()
		}
		r.Results = append(r.Results, entry)
	}
}

// Finalize completes the report with end time, duration and totals.
func (r *Report) Finalize(endTime time.Time, callbackProvider string) {
	r.SessionSummary.EndTime = endTime.Format(time.RFC3339)
	r.SessionSummary.TotalDuration = endTime.Sub(r.startTime).Round(time.Second).String()
	r.SessionSummary.CallbackProvider = callbackProvider
	r.SessionSummary.TotalChecks = len(r.Results)
	executed := 0
	for _, res := range r.Results {
		if res.Executed {
			executed++
		}
	}
	r.SessionSummary.TotalExecuted = executed
}
