package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"hnherald/internal/core"
	"hnherald/internal/pipeline"
)

// DigestResponse is the body returned by POST /api/digest: the digest
// plus the run's diagnostic strings for operators.
type DigestResponse struct {
	Digest *core.Digest `json:"digest"`
	Errors []string     `json:"errors,omitempty"`
}

// ErrorResponse is the body for all non-2xx responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGenerateDigest handles POST /api/digest. Invalid profiles get a
// 400; an unreachable story source gets a 502; anything else fatal gets
// a 500. Partial failures never surface here — they only reduce the
// digest's stats.
func (s *Server) handleGenerateDigest(w http.ResponseWriter, r *http.Request) {
	var profile core.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := profile.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.generator.Generate(r.Context(), profile)
	if err != nil {
		var srcErr *pipeline.SourceError
		if errors.As(err, &srcErr) {
			s.log.Error("Story source unavailable", "error", err.Error())
			s.respondError(w, http.StatusBadGateway, "story source unavailable")
			return
		}
		s.log.Error("Digest generation failed", "error", err.Error())
		s.respondError(w, http.StatusInternalServerError, "digest generation failed")
		return
	}

	s.respondJSON(w, http.StatusOK, DigestResponse{
		Digest: result.Digest,
		Errors: result.Errors,
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("Failed to encode JSON response", "error", err.Error())
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{Error: message})
}
