package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"devanalytics/internal/analysis"
	apierrors "devanalytics/internal/errors"
	"devanalytics/internal/services"
)

// AnalysisHandler handles statistical analysis HTTP requests: insight
// generation, trend fitting and correlation matrices.
type AnalysisHandler struct {
	service  *services.DataService
	logger   *slog.Logger
	validate *validator.Validate
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service *services.DataService, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service:  service,
		logger:   logger.With(slog.String("component", "analysis_handler")),
		validate: validator.New(),
	}
}

// Routes returns the analysis routes, mounted under a dataset ID
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Route("/{datasetID}", func(r chi.Router) {
		r.Post("/insights", h.Insights)
		r.Post("/trends", h.Trends)
		r.Get("/correlation", h.Correlation)
	})

	return r
}

// InsightsRequest optionally selects the (date, metric) pair that enables
// trend insights. Both must be given together or omitted together.
type InsightsRequest struct {
	DateColumn   string `json:"date_column" validate:"required_with=MetricColumn"`
	MetricColumn string `json:"metric_column" validate:"required_with=DateColumn"`
}

// Insights handles POST /api/analysis/{datasetID}/insights
func (h *AnalysisHandler) Insights(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "datasetID")

	var req InsightsRequest
	if r.ContentLength != 0 {
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			respondError(w, r, apierrors.InvalidRequestWithError(err))
			return
		}
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, r, validationError(err))
		return
	}

	report, err := h.service.Insights(r.Context(), id, req.DateColumn, req.MetricColumn)
	if err != nil {
		h.respondServiceError(w, r, id, err)
		return
	}

	render.JSON(w, r, map[string]any{
		"status": "success",
		"data":   report,
	})
}

// Trends handles POST /api/analysis/{datasetID}/trends
func (h *AnalysisHandler) Trends(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "datasetID")

	var req services.TrendRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, r, validationError(err))
		return
	}

	result, err := h.service.Trends(r.Context(), id, req)
	if err != nil {
		h.respondServiceError(w, r, id, err)
		return
	}

	render.JSON(w, r, map[string]any{
		"status": "success",
		"data":   result,
	})
}

// Correlation handles GET /api/analysis/{datasetID}/correlation. Columns
// come from the comma-separated columns query parameter; all numeric
// columns are used when it is absent.
func (h *AnalysisHandler) Correlation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "datasetID")

	var columns []string
	if raw := r.URL.Query().Get("columns"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				columns = append(columns, name)
			}
		}
	}

	matrix, err := h.service.Correlation(r.Context(), id, columns)
	if err != nil {
		h.respondServiceError(w, r, id, err)
		return
	}

	render.JSON(w, r, map[string]any{
		"status": "success",
		"data":   matrix,
	})
}

// respondServiceError maps service and analysis errors onto API errors
func (h *AnalysisHandler) respondServiceError(w http.ResponseWriter, r *http.Request, id string, err error) {
	var colErr *analysis.ColumnError
	switch {
	case errors.Is(err, services.ErrDatasetNotFound):
		respondError(w, r, apierrors.NotFoundError("dataset "+id))
	case errors.As(err, &colErr):
		respondError(w, r, apierrors.ErrValidation(colErr.Column, colErr.Reason))
	case errors.Is(err, analysis.ErrInsufficientData),
		errors.Is(err, analysis.ErrTooFewNumericColumns):
		respondError(w, r, apierrors.UnprocessableError(err))
	default:
		h.logger.ErrorContext(r.Context(), "analysis request failed",
			slog.String("dataset_id", id),
			slog.String("error", err.Error()),
		)
		respondError(w, r, apierrors.ErrInternalServer)
	}
}
