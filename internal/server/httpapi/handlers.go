package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hushdrop/hushdrop/internal/common"
	"github.com/hushdrop/hushdrop/internal/logging"
	"github.com/hushdrop/hushdrop/internal/server/config"
	"github.com/hushdrop/hushdrop/internal/server/models"
	"github.com/hushdrop/hushdrop/internal/server/services"
)

const maxRequestBody = 1 << 20 // 1MB

// Handler serves the public secret endpoints and the admin ledger listing.
type Handler struct {
	svc *services.SecretService
	cfg *config.Config
	log logging.Logger
}

func NewHandler(svc *services.SecretService, cfg *config.Config, log logging.Logger) *Handler {
	return &Handler{svc: svc, cfg: cfg, log: log}
}

type createSecretRequest struct {
	Content   string     `json:"content"`
	MaxViews  int        `json:"max_views"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type secretResponse struct {
	Token     string    `json:"token"`
	MaxViews  int       `json:"max_views"`
	ViewCount int       `json:"view_count"`
	Revoked   bool      `json:"revoked"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

type viewResponse struct {
	Content string `json:"content"`
}

type logEntryResponse struct {
	SecretToken *string   `json:"secret_token"`
	IPAddress   string    `json:"ip_address"`
	UserAgent   string    `json:"user_agent"`
	Action      string    `json:"action"`
	Details     *string   `json:"details,omitempty"`
	AccessedAt  time.Time `json:"accessed_at"`
}

func toSecretResponse(s *models.Secret) secretResponse {
	return secretResponse{
		Token:     s.Token,
		MaxViews:  s.MaxViews,
		ViewCount: s.ViewCount,
		Revoked:   s.Revoked,
		ExpiresAt: s.ExpiresAt,
		CreatedAt: s.CreatedAt,
	}
}

// CreateSecret handles POST /api/secrets.
func (h *Handler) CreateSecret(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req createSecretRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.MaxViews == 0 {
		req.MaxViews = 1
	}

	secret, err := h.svc.CreateSecret(r.Context(), req.Content, req.MaxViews, req.ExpiresAt, clientIP(r), r.UserAgent())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSecretResponse(secret))
}

// ViewSecret handles GET /api/secrets/{token}. This is the consuming
// read: a successful response is the one and only delivery of that view.
func (h *Handler) ViewSecret(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	plaintext, err := h.svc.ViewSecret(r.Context(), token, clientIP(r), r.UserAgent())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	defer common.WipeByteArray(plaintext)

	writeJSON(w, http.StatusOK, viewResponse{Content: string(plaintext)})
}

// RevokeSecret handles DELETE /api/secrets/{token}.
func (h *Handler) RevokeSecret(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	if err := h.svc.RevokeSecret(r.Context(), token, clientIP(r), r.UserAgent()); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListSecrets handles GET /api/secrets: the requester's own recent
// secrets, metadata only.
func (h *Handler) ListSecrets(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListRecentForCreator(r.Context(), clientIP(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	resp := make([]secretResponse, 0, len(list))
	for _, s := range list {
		resp = append(resp, toSecretResponse(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

// RecentLogs handles GET /api/logs for authenticated operators. An
// optional ?limit= caps the listing; the service default applies otherwise.
func (h *Handler) RecentLogs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := h.svc.RecentAccessLog(r.Context(), limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	resp := make([]logEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, logEntryResponse{
			SecretToken: e.SecretToken,
			IPAddress:   e.IPAddress,
			UserAgent:   e.UserAgent,
			Action:      e.Action,
			Details:     e.Details,
			AccessedAt:  e.AccessedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeServiceError maps domain errors onto HTTP statuses. Ownership
// failures answer 404 so a non-creator cannot distinguish "exists" from
// "does not exist".
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrNotFound), errors.Is(err, common.ErrOwnership):
		writeError(w, http.StatusNotFound, "secret not found")
	case errors.Is(err, common.ErrGone):
		writeError(w, http.StatusGone, "secret is no longer available")
	case errors.Is(err, common.ErrContentUnavailable):
		writeError(w, http.StatusGone, "secret content is unavailable")
	default:
		h.log.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
