package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"chronicle/history/internal/authorship"
	"chronicle/history/internal/gitrepo"
	"chronicle/history/internal/util"
)

type HTTPServer struct {
	service    *Service
	corsOrigin string
}

func NewHTTPServer(service *Service, corsOrigin string) *HTTPServer {
	return &HTTPServer{service: service, corsOrigin: corsOrigin}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.withMiddleware(http.HandlerFunc(s.handle))
}

func (s *HTTPServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		writeJSON(w, http.StatusNoContent, map[string]any{})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/health" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/ready" {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := "ready"
		statusCode := http.StatusOK
		checks := map[string]any{}
		for name, err := range s.service.Ping(ctx) {
			if err != nil {
				status = "not_ready"
				statusCode = http.StatusServiceUnavailable
				checks[name] = map[string]any{"status": "error", "error": err.Error()}
				continue
			}
			checks[name] = map[string]any{"status": "ok"}
		}

		writeJSON(w, statusCode, map[string]any{
			"ok":     status == "ready",
			"status": status,
			"checks": checks,
		})
		return
	}

	parts := splitPath(r.URL.Path)
	if len(parts) >= 3 && parts[0] == "api" && parts[1] == "documents" {
		s.handleDocuments(w, r, parts[2], parts)
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handleDocuments(w http.ResponseWriter, r *http.Request, documentID string, parts []string) {
	if len(parts) == 3 && r.Method == http.MethodDelete {
		if err := s.service.Close(documentID); err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if len(parts) == 3 && r.Method == http.MethodGet {
		payload, err := s.service.Timeline(documentID)
		respond(w, r, payload, err)
		return
	}

	if len(parts) == 4 && parts[3] == "open" && r.Method == http.MethodPost {
		var body struct {
			Content *string `json:"content"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		payload, err := s.service.Open(r.Context(), documentID, body.Content)
		respond(w, r, payload, err)
		return
	}

	if len(parts) == 4 && parts[3] == "changes" && r.Method == http.MethodPost {
		var body struct {
			Content *string `json:"content"`
			Remote  bool    `json:"remote"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		if body.Content == nil {
			writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "content is required", nil)
			return
		}
		payload, err := s.service.ApplyChange(r.Context(), documentID, *body.Content, body.Remote)
		respond(w, r, payload, err)
		return
	}

	if len(parts) == 4 && parts[3] == "scrub" && r.Method == http.MethodPost {
		var body struct {
			Index *int `json:"index"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		if body.Index == nil {
			writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "index is required", nil)
			return
		}
		payload, err := s.service.Scrub(documentID, *body.Index)
		respond(w, r, payload, err)
		return
	}

	if len(parts) == 4 && parts[3] == "history" && r.Method == http.MethodGet {
		payload, err := s.service.Timeline(documentID)
		respond(w, r, payload, err)
		return
	}

	if len(parts) == 4 && parts[3] == "authorship" && r.Method == http.MethodGet {
		latest := false
		if raw := strings.TrimSpace(r.URL.Query().Get("latest")); raw != "" {
			parsed, err := strconv.ParseBool(raw)
			if err != nil {
				writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "latest must be a boolean", nil)
				return
			}
			latest = parsed
		}
		payload, err := s.service.Authorship(documentID, latest)
		respond(w, r, payload, err)
		return
	}

	if len(parts) == 4 && parts[3] == "diff" && r.Method == http.MethodGet {
		payload, err := s.service.Diff(documentID)
		respond(w, r, payload, err)
		return
	}

	if len(parts) == 4 && parts[3] == "checkpoint" && r.Method == http.MethodPost {
		var body struct {
			Message string `json:"message"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		payload, err := s.service.Checkpoint(documentID, body.Message)
		respond(w, r, payload, err)
		return
	}

	if len(parts) == 4 && parts[3] == "revisions" && r.Method == http.MethodGet {
		payload, err := s.service.Revisions(documentID)
		respond(w, r, payload, err)
		return
	}

	if len(parts) == 4 && parts[3] == "peers" && r.Method == http.MethodPost {
		var body struct {
			Name   string `json:"name"`
			Type   string `json:"type"`
			Cursor int    `json:"cursor"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		peer := authorship.Peer{Name: strings.TrimSpace(body.Name), Type: body.Type, Cursor: body.Cursor}
		payload, err := s.service.JoinPeer(r.Context(), documentID, peer)
		respond(w, r, payload, err)
		return
	}

	if len(parts) == 5 && parts[3] == "peers" && r.Method == http.MethodDelete {
		payload, err := s.service.LeavePeer(r.Context(), documentID, parts[4])
		respond(w, r, payload, err)
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func respond(w http.ResponseWriter, r *http.Request, payload map[string]any, err error) {
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message, details := mapError(err)
	if status == http.StatusInternalServerError {
		log.Printf("history: request %s failed: %v", requestID(r.Context()), err)
	}
	writeError(w, status, code, message, details)
}

func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = util.NewID("req")
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		started := time.Now()
		writer := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		setCORSHeaders(writer.Header(), s.corsOrigin)
		writer.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(writer, r)

		log.Printf(`{"request_id":"%s","method":"%s","path":"%s","status":%d,"duration_ms":%d}`,
			requestID,
			r.Method,
			r.URL.Path,
			writer.status,
			time.Since(started).Milliseconds(),
		)
	})
}

type requestIDKey struct{}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func setCORSHeaders(header http.Header, corsOrigin string) {
	header.Set("Access-Control-Allow-Origin", corsOrigin)
	header.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
	header.Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
	header.Set("Cache-Control", "no-store")
	header.Set("Content-Type", "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	response := map[string]any{
		"code":  code,
		"error": message,
	}
	if details != nil {
		response["details"] = details
	}
	writeJSON(w, status, response)
}

// decodeBody treats a missing or empty body as an empty object.
func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, http.ErrBodyReadAfterClose) {
			return nil
		}
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func mapError(err error) (status int, code, message string, details any) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Details
	}
	if errors.Is(err, gitrepo.ErrDocumentNotFound) {
		return http.StatusNotFound, "DOCUMENT_NOT_FOUND", "Document not found", nil
	}
	return http.StatusInternalServerError, "SERVER_ERROR", "Server error", nil
}
