package api

import (
	"github.com/dd0wney/cluso-degrees/pkg/dataset"
	"github.com/dd0wney/cluso-degrees/pkg/report"
	"github.com/dd0wney/cluso-degrees/pkg/resolve"
	"github.com/dd0wney/cluso-degrees/pkg/search"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Code      int    `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// PathResponse is returned by GET /api/v1/path. Connected is false, with a
// 200 status, when the two people share no chain of movies.
type PathResponse struct {
	report.Report
	Stats search.Stats `json:"stats"`
}

// PeopleResponse is returned by GET /api/v1/people
type PeopleResponse struct {
	Query  string              `json:"query"`
	People []resolve.Candidate `json:"people"`
	// Suggestions holds close matches when no one has the exact name
	Suggestions []resolve.Candidate `json:"suggestions,omitempty"`
}

// StatsResponse is returned by GET /api/v1/stats
type StatsResponse struct {
	Dataset  dataset.Statistics `json:"dataset"`
	MaxDepth int                `json:"max_depth"`
	Uptime   string             `json:"uptime"`
	Version  string             `json:"version"`
}
