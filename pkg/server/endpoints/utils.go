package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/infraflow-ai/infraflow/pkg/identity"
	"github.com/infraflow-ai/infraflow/pkg/logging"
	"github.com/infraflow-ai/infraflow/pkg/server/store"
)

// maxJSONBody caps request bodies outside of uploads.
const maxJSONBody = 1 << 20

// ErrorBody is the error envelope of every failed request.
type ErrorBody struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
	Timestamp  string `json:"timestamp"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]ErrorBody{"error": {
		Message:    message,
		StatusCode: code,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid JSON body: %v", err))
		return false
	}
	return true
}

// pathID parses the named mux variable as a UUID, answering 400 when it is not one.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s", name))
		return uuid.Nil, false
	}
	return id, true
}

var notFoundErrors = []error{
	store.ErrProjectNotFound,
	store.ErrDocumentNotFound,
	store.ErrModelNotFound,
	store.ErrAssessmentNotFound,
	store.ErrStakeholderNotFound,
	store.ErrReportNotFound,
}

// respondWithStoreError answers 404 for the store sentinels and logs
// anything else as a 500.
func respondWithStoreError(w http.ResponseWriter, r *http.Request, err error, action string) {
	for _, nf := range notFoundErrors {
		if errors.Is(err, nf) {
			respondWithError(w, http.StatusNotFound, capitalize(nf.Error()))
			return
		}
	}
	log := requestLogger(r)
	log.Error().Err(err).Str("action", action).Msg("store failure")
	respondWithError(w, http.StatusInternalServerError, "Failed to "+action)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func requestLogger(r *http.Request) zerolog.Logger {
	ctx := logging.Component("endpoints").With().
		Str("method", r.Method).
		Str("path", r.URL.Path)
	if id, ok := identity.Get(r.Context()); ok {
		ctx = ctx.Str("user", id.UserID)
	}
	return ctx.Logger()
}

// caller returns the request identity. Routes under the API router always
// carry one.
func caller(r *http.Request) *identity.Identity {
	if id, ok := identity.Get(r.Context()); ok {
		return id
	}
	return &identity.Identity{}
}
