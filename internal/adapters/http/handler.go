package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jpp0ca/DV360Trackers-API/internal/domain"
	"github.com/jpp0ca/DV360Trackers-API/internal/ports"
)

// TypeCatalog lists the tracker vocabulary per creative variant.
type TypeCatalog interface {
	Version() string
	Variants() []domain.Variant
	Labels(variant domain.Variant) []string
	ToAPIType(label string, variant domain.Variant) (domain.TypeID, error)
}

// Authenticator drives the out-of-band OAuth consent flow.
type Authenticator interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) error
	Authorized() bool
}

// Options configures a Handler. Types is required; Auth may be nil when
// credentials are managed outside the API.
type Options struct {
	Types         TypeCatalog
	Auth          Authenticator
	MaxUploadRows int
	Logger        *zap.Logger
}

// Handler holds the HTTP handlers for the tracker API.
type Handler struct {
	service       ports.TrackerService
	types         TypeCatalog
	auth          Authenticator
	maxUploadRows int
	logger        *zap.Logger
}

// NewHandler creates a new HTTP handler with the given tracker service.
func NewHandler(service ports.TrackerService, opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		service:       service,
		types:         opts.Types,
		auth:          opts.Auth,
		maxUploadRows: opts.MaxUploadRows,
		logger:        logger.Named("http"),
	}
}

// RegisterRoutes sets up all API routes on the given Gin engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	auth := r.Group("/auth")
	{
		auth.GET("/url", h.AuthURL)
		auth.POST("/exchange", h.AuthExchange)
	}

	api := r.Group("/api/v1")
	{
		api.GET("/tracker-types", h.ListTrackerTypes)

		api.GET("/advertisers/:advertiserId/creatives/:creativeId", h.GetCreative)
		api.POST("/advertisers/:advertiserId/creatives/:creativeId/trackers", h.UpdateTrackers)

		api.POST("/bulk", h.BulkUpload)
		api.POST("/export", h.ExportTemplate)

		sessions := api.Group("/sessions")
		{
			sessions.POST("", h.StartSession)
			sessions.GET("/:id", h.GetSession)
			sessions.DELETE("/:id", h.ClearSession)
			sessions.POST("/:id/trackers", h.StageTrackers)
			sessions.POST("/:id/validate", h.ValidateSession)
			sessions.POST("/:id/commit", h.CommitSession)
			sessions.GET("/:id/report", h.SessionReport)
		}

		api.GET("/runs", h.ListRuns)
		api.GET("/runs/:id", h.GetRun)
	}
}

// Health returns a simple health check response.
//
//	@Summary		Health check
//	@Description	Returns the health status of the API and whether a DV360 credential is available.
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Router			/health [get]
func (h *Handler) Health(c *gin.Context) {
	resp := HealthResponse{Status: "ok"}
	if h.auth != nil {
		authorized := h.auth.Authorized()
		resp.Authorized = &authorized
	}
	c.JSON(http.StatusOK, resp)
}

// ListTrackerTypes returns the tracker labels accepted for each variant.
//
//	@Summary		List tracker types
//	@Description	Returns the event labels, and the DV360 types they map to, for every creative variant.
//	@Tags			trackers
//	@Produce		json
//	@Param			variant	query		string	false	"Restrict to one variant"	Enums(standard, vast_video, hosted_video)
//	@Success		200		{object}	TrackerTypesResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/api/v1/tracker-types [get]
func (h *Handler) ListTrackerTypes(c *gin.Context) {
	variants := h.types.Variants()
	if q := c.Query("variant"); q != "" {
		v, ok := domain.ParseVariant(q)
		if !ok {
			writeError(c, errBadRequest("unknown variant "+q))
			return
		}
		variants = []domain.Variant{v}
	}

	resp := TrackerTypesResponse{Version: h.types.Version()}
	for _, v := range variants {
		set := VariantTypes{Variant: v, Trackers: []TrackerTypeView{}}
		for _, label := range h.types.Labels(v) {
			typeID, err := h.types.ToAPIType(label, v)
			if err != nil {
				continue
			}
			set.Trackers = append(set.Trackers, TrackerTypeView{Label: label, Type: typeID})
		}
		resp.Variants = append(resp.Variants, set)
	}
	c.JSON(http.StatusOK, resp)
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status     string `json:"status"`
	Authorized *bool  `json:"authorized,omitempty"`
}

// TrackerTypesResponse lists the registry.
type TrackerTypesResponse struct {
	Version  string         `json:"version"`
	Variants []VariantTypes `json:"variants"`
}

// VariantTypes is the vocabulary of one variant.
type VariantTypes struct {
	Variant  domain.Variant    `json:"variant"`
	Trackers []TrackerTypeView `json:"trackers"`
}

// TrackerTypeView pairs a label with its API type.
type TrackerTypeView struct {
	Label string        `json:"label"`
	Type  domain.TypeID `json:"type"`
}

func errBadRequest(msg string) error {
	return &requestError{msg: msg}
}

type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }
func (e *requestError) Unwrap() error { return domain.ErrMalformedInput }

// writeError maps domain errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, domain.ErrMalformedInput):
		status, code = http.StatusBadRequest, "bad_request"
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrRunNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrInvalidPhase):
		status, code = http.StatusConflict, "invalid_phase"
	case errors.Is(err, domain.ErrAuthExpired):
		status, code = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrVariantAmbiguous):
		status, code = http.StatusUnprocessableEntity, "variant_ambiguous"
	case errors.Is(err, domain.ErrFetchFailed), errors.Is(err, domain.ErrPatchFailed):
		status, code = http.StatusBadGateway, "upstream_error"
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: code, Message: err.Error()})
}
