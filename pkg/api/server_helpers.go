package api

import (
	"encoding/json"
	"net/http"

	"github.com/dd0wney/cluso-degrees/pkg/api/middleware"
	"github.com/dd0wney/cluso-degrees/pkg/logging"
)

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	response := ErrorResponse{
		Error:     http.StatusText(status),
		Message:   message,
		Code:      status,
		RequestID: middleware.GetRequestID(r),
	}
	s.respondJSON(w, status, response)
}
