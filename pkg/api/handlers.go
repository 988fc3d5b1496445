package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dd0wney/cluso-degrees/pkg/logging"
	"github.com/dd0wney/cluso-degrees/pkg/report"
	"github.com/dd0wney/cluso-degrees/pkg/search"
	"github.com/dd0wney/cluso-degrees/pkg/validation"
)

// handlePath answers GET /api/v1/path?source=<id>&target=<id>
func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := validation.PathRequest{
		Source: strings.TrimSpace(q.Get("source")),
		Target: strings.TrimSpace(q.Get("target")),
	}
	if err := validation.Request(&req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.searcher.ShortestPath(req.Source, req.Target)
	if err != nil {
		if errors.Is(err, search.ErrUnknownPerson) {
			s.respondError(w, r, http.StatusNotFound, err.Error())
			return
		}
		s.logger.Error("search failed", logging.Source(req.Source), logging.Target(req.Target), logging.Error(err))
		s.respondError(w, r, http.StatusInternalServerError, "search failed")
		return
	}

	rep, err := report.Build(s.store, req.Source, req.Target, res.Path, res.Found)
	if err != nil {
		s.logger.Error("failed to build report", logging.Error(err))
		s.respondError(w, r, http.StatusInternalServerError, "search failed")
		return
	}

	s.respondJSON(w, http.StatusOK, PathResponse{Report: rep, Stats: res.Stats})
}

// handlePeople answers GET /api/v1/people?name=<name>. Names are matched
// case-insensitively; when nobody matches, close names are suggested.
func (s *Server) handlePeople(w http.ResponseWriter, r *http.Request) {
	req := validation.NameRequest{Name: strings.TrimSpace(r.URL.Query().Get("name"))}
	if err := validation.Request(&req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	people, err := s.resolver.Candidates(req.Name)
	if err != nil {
		s.logger.Error("failed to list candidates", logging.Error(err))
		s.respondError(w, r, http.StatusInternalServerError, "lookup failed")
		return
	}

	resp := PeopleResponse{Query: req.Name, People: people}
	if len(people) == 0 {
		resp.Suggestions = s.names.Suggest(req.Name, maxSuggestions)
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// handleStats answers GET /api/v1/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, StatsResponse{
		Dataset:  s.store.Stats(),
		MaxDepth: s.searcher.MaxDepth(),
		Uptime:   time.Since(s.startTime).Round(time.Second).String(),
		Version:  Version,
	})
}
