package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"devanalytics/internal/dataset"
	apierrors "devanalytics/internal/errors"
	"devanalytics/internal/ingestion"
	"devanalytics/internal/services"
)

// DatasetHandler handles dataset lifecycle HTTP requests: upload, listing,
// summaries, queries, export and deletion.
type DatasetHandler struct {
	service        *services.DataService
	logger         *slog.Logger
	validate       *validator.Validate
	maxUploadBytes int64
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(service *services.DataService, logger *slog.Logger, maxUploadBytes int64) *DatasetHandler {
	return &DatasetHandler{
		service:        service,
		logger:         logger.With(slog.String("component", "dataset_handler")),
		validate:       validator.New(),
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes returns the dataset routes
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.Upload)
	r.Get("/", h.List)

	r.Route("/{datasetID}", func(r chi.Router) {
		r.Use(h.DatasetCtx)
		r.Get("/summary", h.Summary)
		r.Post("/query", h.Query)
		r.Get("/export/{format}", h.Export)
		r.Delete("/", h.Delete)
	})

	return r
}

// DatasetCtx validates the dataset ID parameter
func (h *DatasetHandler) DatasetCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "datasetID") == "" {
			respondError(w, r, apierrors.ErrValidation("datasetID", "Dataset ID is required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Upload handles POST /api/datasets. The body is the raw CSV or JSON
// document; the Content-Type header selects the loader.
func (h *DatasetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	defer body.Close()

	name := datasetName(r)

	ds, err := h.loadDataset(r.Header.Get("Content-Type"), name, body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, r, apierrors.New(http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE",
				fmt.Sprintf("Upload exceeds the %d byte limit", maxErr.Limit)))
			return
		}
		h.logger.WarnContext(r.Context(), "dataset upload rejected",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		respondError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	meta := h.service.Store(r.Context(), name, ds)

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]any{
		"status": "success",
		"data":   meta,
	})
}

// loadDataset selects the ingestion format from the content type
func (h *DatasetHandler) loadDataset(contentType, name string, body io.Reader) (*dataset.Dataset, error) {
	mediaType := contentType
	if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
		mediaType = parsed
	}

	switch {
	case mediaType == "application/json":
		return ingestion.LoadJSON(body)
	case mediaType == "text/csv" || mediaType == "application/csv" || mediaType == "":
		return ingestion.LoadCSV(body)
	case strings.HasSuffix(name, ".json"):
		return ingestion.LoadJSON(body)
	case strings.HasSuffix(name, ".csv"):
		return ingestion.LoadCSV(body)
	default:
		return nil, fmt.Errorf("unsupported content type %q", contentType)
	}
}

// List handles GET /api/datasets
func (h *DatasetHandler) List(w http.ResponseWriter, r *http.Request) {
	metas := h.service.List(r.Context())
	render.JSON(w, r, map[string]any{
		"status": "success",
		"data":   metas,
		"count":  len(metas),
	})
}

// Summary handles GET /api/datasets/{datasetID}/summary
func (h *DatasetHandler) Summary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "datasetID")

	summary, err := h.service.Summary(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, id, err)
		return
	}

	render.JSON(w, r, map[string]any{
		"status": "success",
		"data":   summary,
	})
}

// QueryRequest selects columns and a row limit for a dataset query
type QueryRequest struct {
	Columns []string `json:"columns"`
	MaxRows int      `json:"max_rows" validate:"gte=0"`
}

// Query handles POST /api/datasets/{datasetID}/query
func (h *DatasetHandler) Query(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "datasetID")

	var req QueryRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, r, validationError(err))
		return
	}

	result, err := h.service.Query(r.Context(), id, req.Columns, req.MaxRows)
	if err != nil {
		h.respondServiceError(w, r, id, err)
		return
	}

	render.JSON(w, r, map[string]any{
		"status": "success",
		"data":   result,
	})
}

// Export handles GET /api/datasets/{datasetID}/export/{format}
func (h *DatasetHandler) Export(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "datasetID")
	format := chi.URLParam(r, "format")

	data, contentType, filename, err := h.service.Export(r.Context(), id, format, exportOptions(r))
	if err != nil {
		h.respondServiceError(w, r, id, err)
		return
	}

	h.logger.InfoContext(r.Context(), "dataset exported",
		slog.String("dataset_id", id),
		slog.String("format", format),
		slog.Int("bytes", len(data)),
	)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(filename)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Delete handles DELETE /api/datasets/{datasetID}
func (h *DatasetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "datasetID")

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, r, id, err)
		return
	}

	render.JSON(w, r, map[string]any{
		"status": "success",
	})
}

// respondServiceError maps service errors onto API errors
func (h *DatasetHandler) respondServiceError(w http.ResponseWriter, r *http.Request, id string, err error) {
	switch {
	case errors.Is(err, services.ErrDatasetNotFound):
		respondError(w, r, apierrors.NotFoundError("dataset "+id))
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrInvalidFormat):
		respondError(w, r, apierrors.InvalidRequestWithError(err))
	default:
		h.logger.ErrorContext(r.Context(), "dataset request failed",
			slog.String("dataset_id", id),
			slog.String("error", err.Error()),
		)
		respondError(w, r, apierrors.ErrInternalServer)
	}
}
