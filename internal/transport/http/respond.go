package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "devanalytics/internal/errors"
	"devanalytics/internal/exporter"
)

// respondError writes an API error using the standard envelope
func respondError(w http.ResponseWriter, r *http.Request, apiErr *apierrors.APIError) {
	render.Render(w, r, apierrors.NewErrorResponse(apiErr))
}

// validationError converts validator failures into an API error naming the
// first failed field.
func validationError(err error) *apierrors.APIError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return apierrors.ErrValidation(first.Field(), "failed validation rule "+first.Tag())
	}
	return apierrors.InvalidRequestWithError(err)
}

// datasetName derives a dataset name from the upload request. The name
// query parameter wins; otherwise a generic name is used.
func datasetName(r *http.Request) string {
	if name := strings.TrimSpace(r.URL.Query().Get("name")); name != "" {
		return name
	}
	return "dataset"
}

// exportOptions parses export query parameters
func exportOptions(r *http.Request) exporter.Options {
	query := r.URL.Query()

	var opts exporter.Options
	if raw := query.Get("columns"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				opts.Columns = append(opts.Columns, name)
			}
		}
	}
	if raw := query.Get("max_rows"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			opts.MaxRows = n
		}
	}
	if raw := query.Get("bom"); raw != "" {
		opts.BOM, _ = strconv.ParseBool(raw)
	}
	return opts
}
