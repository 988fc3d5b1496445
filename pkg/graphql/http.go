package graphql

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"

	"github.com/dd0wney/cluso-degrees/pkg/logging"
)

// maxRequestBytes caps the size of a POSTed request
const maxRequestBytes = 1 << 20

// Request is a GraphQL HTTP request
type Request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

// Response is a GraphQL HTTP response
type Response struct {
	Data   any     `json:"data,omitempty"`
	Errors []Error `json:"errors,omitempty"`
}

// Error is one GraphQL error
type Error struct {
	Message string `json:"message"`
}

// Handler serves GraphQL queries over HTTP with a depth limit
type Handler struct {
	schema   graphql.Schema
	maxDepth int
	logger   logging.Logger
}

// NewHandler creates a handler. A nil logger discards output.
func NewHandler(schema graphql.Schema, maxDepth int, logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Handler{
		schema:   schema,
		maxDepth: maxDepth,
		logger:   logger.With(logging.Component("graphql")),
	}
}

// Execute runs one request against the schema after checking its depth
func (h *Handler) Execute(r *http.Request, req Request) *graphql.Result {
	start := time.Now()

	if err := ValidateQueryDepth(req.Query, h.maxDepth); err != nil {
		return &graphql.Result{Errors: []gqlerrors.FormattedError{gqlerrors.FormatError(err)}}
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})

	h.logger.Debug("query executed",
		logging.Int("errors", len(result.Errors)),
		logging.Latency(time.Since(start)),
	)
	return result
}

// ServeHTTP accepts POSTed JSON requests and GET requests with a query parameter
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req Request
	switch r.Method {
	case http.MethodGet:
		req.Query = r.URL.Query().Get("query")
		req.OperationName = r.URL.Query().Get("operationName")
		if vars := r.URL.Query().Get("variables"); vars != "" {
			if err := json.Unmarshal([]byte(vars), &req.Variables); err != nil {
				h.writeError(w, http.StatusBadRequest, "invalid variables")
				return
			}
		}
	case http.MethodPost:
		body := http.MaxBytesReader(w, r.Body, maxRequestBytes)
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				h.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			h.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	default:
		w.Header().Set("Allow", "GET, POST")
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if req.Query == "" {
		h.writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	result := h.Execute(r, req)

	response := Response{Data: result.Data}
	for _, err := range result.Errors {
		response.Errors = append(response.Errors, Error{Message: err.Message})
	}
	h.writeJSON(w, http.StatusOK, response)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, Response{Errors: []Error{{Message: message}}})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", logging.Error(err))
	}
}
