package counter

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sundayezeilo/pagecounts/internal/errx"
	"github.com/sundayezeilo/pagecounts/internal/httpx"
)

// Query/body parameter and action names of the public contract.
const (
	paramAction = "action"
	paramSlug   = "slug"
	paramField  = "field"

	actionGet  = "get"
	actionBump = "bump"
)

// BumpRequest is the JSON body of the POST entry point. Both fields
// are optional; absent values fall back to query parameters and then
// to defaults.
type BumpRequest struct {
	Slug  string `json:"slug"`
	Field string `json:"field"`
}

// Handler provides the HTTP entry points of the counter service.
//
// The public read/bump endpoints always answer 200 with a JSON object:
// either the counts row or {"error": "..."}. Legacy clients dispatch
// on the presence of the "error" key, not on status codes, so the
// handlers never vary the status there.
type Handler struct {
	service    Service
	logger     *slog.Logger
	adminToken string
}

// HandlerConfig holds configuration for the handler.
type HandlerConfig struct {
	Service    Service
	Logger     *slog.Logger
	AdminToken string // required for the reset endpoint; empty disables it
}

// NewHandler creates a new Handler instance.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		service:    cfg.Service,
		logger:     logger,
		adminToken: cfg.AdminToken,
	}
}

// GetCounts handles the GET entry point. Without an action (or with
// action=get) it reads; with action=bump it increments, which lets
// browser clients mutate without a CORS preflight.
func (h *Handler) GetCounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	q := r.URL.Query()
	slug := slugOrDefault(q.Get(paramSlug))

	switch action := q.Get(paramAction); action {
	case "", actionGet:
		counts, err := h.service.ReadCounts(ctx, slug)
		if err != nil {
			h.writeServiceError(ctx, w, logger, err, slug)
			return
		}
		httpx.WriteOK(w, counts)

	case actionBump:
		h.bump(w, r, slug, q.Get(paramField))

	default:
		logger.WarnContext(ctx, "unknown action", "action", action, "slug", slug)
		httpx.WriteOKError(w, "unknown action "+action)
	}
}

// BumpCounts handles the POST entry point. The body is JSON
// {"slug","field"}; an unparseable body degrades to query parameters
// rather than failing the request.
func (h *Handler) BumpCounts(w http.ResponseWriter, r *http.Request) {
	logger := h.requestLogger(r)

	req, err := httpx.DecodeJSON[BumpRequest](r)
	if err != nil {
		logger.WarnContext(r.Context(), "malformed bump body, falling back to query params",
			"error", err.Error(),
		)
		req = BumpRequest{}
	}

	q := r.URL.Query()
	if req.Slug == "" {
		req.Slug = q.Get(paramSlug)
	}
	if req.Field == "" {
		req.Field = q.Get(paramField)
	}

	h.bump(w, r, slugOrDefault(req.Slug), req.Field)
}

// ResetCounts handles the operator-only reset endpoint. This surface
// is new, so it uses real status codes instead of the legacy envelope.
func (h *Handler) ResetCounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	if h.adminToken == "" || r.Header.Get("X-Admin-Token") != h.adminToken {
		logger.WarnContext(ctx, "reset rejected, bad admin token")
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid admin token", nil)
		return
	}

	slug := slugOrDefault(r.URL.Query().Get(paramSlug))
	if err := h.service.ResetSlug(ctx, slug); err != nil {
		kind := errx.KindOf(err)
		logger.ErrorContext(ctx, "reset failed",
			"slug", slug,
			"error", err.Error(),
			"error_kind", kind.String(),
			"operation", errx.OpOf(err),
		)
		httpx.WriteError(w, httpx.ErrorKindToStatus(kind), kind.Code(), err.Error(), nil)
		return
	}

	logger.InfoContext(ctx, "reset accepted", "slug", slug)
	w.WriteHeader(http.StatusNoContent)
}

// bump routes both mutate variants (GET action=bump and POST body)
// through the same increment logic.
func (h *Handler) bump(w http.ResponseWriter, r *http.Request, slug, rawField string) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	field, err := ParseField(rawField)
	if err != nil {
		logger.WarnContext(ctx, "invalid field",
			"slug", slug,
			"field", rawField,
			"error", err.Error(),
		)
		httpx.WriteOKError(w, err.Error())
		return
	}

	counts, err := h.service.Bump(ctx, slug, field)
	if err != nil {
		h.writeServiceError(ctx, w, logger, err, slug)
		return
	}

	logger.InfoContext(ctx, "counter bumped",
		"slug", slug,
		"field", field.String(),
		"value", counts.Get(field),
	)
	httpx.WriteOK(w, counts)
}

// writeServiceError reports a service failure through the legacy
// 200-with-error envelope.
func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, logger *slog.Logger, err error, slug string) {
	kind := errx.KindOf(err)

	logAttrs := []any{
		"error", err.Error(),
		"error_kind", kind.String(),
		"operation", errx.OpOf(err),
		"slug", slug,
	}

	switch kind {
	case errx.Invalid:
		logger.WarnContext(ctx, "invalid counter request", logAttrs...)
		httpx.WriteOKError(w, err.Error())
	default:
		logger.ErrorContext(ctx, "counter store failure", logAttrs...)
		httpx.WriteOKError(w, "unable to reach the counter store, try again")
	}
}

// requestLogger decorates the handler logger with request metadata.
func (h *Handler) requestLogger(r *http.Request) *slog.Logger {
	return h.logger.With(
		"request_id", httpx.GetRequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
	)
}

func slugOrDefault(slug string) string {
	if slug == "" {
		return DefaultSlug
	}
	return slug
}
