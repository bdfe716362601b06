package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"devanalytics/internal/analysis"
	"devanalytics/internal/dataset"
	"devanalytics/internal/exporter"
)

// DatasetMeta describes one stored dataset snapshot
type DatasetMeta struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Rows      int       `json:"rows"`
	Columns   int       `json:"columns"`
	CreatedAt time.Time `json:"created_at"`
}

// DatasetSummary combines metadata with the per-column profiles and the
// column groups the UI needs to drive its selectors.
type DatasetSummary struct {
	Meta           DatasetMeta              `json:"meta"`
	Profiles       []analysis.ColumnProfile `json:"profiles"`
	DateColumns    []string                 `json:"date_columns"`
	NumericColumns []string                 `json:"numeric_columns"`
}

// QueryResult is a column/row-range selection of a dataset
type QueryResult struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
	Count   int              `json:"count"`
}

// TrendRequest selects the (date, metric) pair and decomposition options
// for a trend analysis.
type TrendRequest struct {
	DateColumn   string `json:"date_column" validate:"required"`
	MetricColumn string `json:"metric_column" validate:"required"`
	Decompose    bool   `json:"decompose"`
	Period       int    `json:"period" validate:"gte=0"`
}

// TrendAnalysis is the full result of a trend request: the prepared series
// plus the fitted trend (with decomposition when requested and computable).
type TrendAnalysis struct {
	Series analysis.TimeSeries  `json:"series"`
	Trend  analysis.TrendResult `json:"trend"`
}

type storedDataset struct {
	meta DatasetMeta
	data *dataset.Dataset
}

// DataService holds dataset snapshots in memory and fronts the analysis
// engine. The store is explicit, uuid-keyed state owned by this service;
// the engine itself stays pure, so concurrent analysis over distinct
// snapshots needs no coordination beyond the store's own lock.
type DataService struct {
	mu       sync.RWMutex
	datasets map[string]storedDataset
	logger   *slog.Logger
}

// NewDataService creates a new data service
func NewDataService(logger *slog.Logger) *DataService {
	return &DataService{
		datasets: make(map[string]storedDataset),
		logger:   logger.With(slog.String("component", "data_service")),
	}
}

// Store registers a dataset snapshot and returns its metadata
func (s *DataService) Store(ctx context.Context, name string, ds *dataset.Dataset) DatasetMeta {
	meta := DatasetMeta{
		ID:        uuid.New().String(),
		Name:      name,
		Rows:      ds.Len(),
		Columns:   ds.NumColumns(),
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.datasets[meta.ID] = storedDataset{meta: meta, data: ds}
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "dataset stored",
		slog.String("dataset_id", meta.ID),
		slog.String("name", name),
		slog.Int("rows", meta.Rows),
		slog.Int("columns", meta.Columns),
	)
	return meta
}

// List returns metadata for all stored datasets, newest first
func (s *DataService) List(ctx context.Context) []DatasetMeta {
	s.mu.RLock()
	defer s.mu.RUnlock()

	metas := make([]DatasetMeta, 0, len(s.datasets))
	for _, stored := range s.datasets {
		metas = append(metas, stored.meta)
	}
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].CreatedAt.After(metas[j].CreatedAt)
	})
	return metas
}

// Delete removes a dataset snapshot
func (s *DataService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.datasets[id]; !ok {
		return ErrDatasetNotFound
	}
	delete(s.datasets, id)
	return nil
}

// get returns the stored dataset for id
func (s *DataService) get(id string) (storedDataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.datasets[id]
	if !ok {
		return storedDataset{}, ErrDatasetNotFound
	}
	return stored, nil
}

// Summary returns metadata, column profiles and column groups for a dataset
func (s *DataService) Summary(ctx context.Context, id string) (*DatasetSummary, error) {
	stored, err := s.get(id)
	if err != nil {
		return nil, err
	}

	return &DatasetSummary{
		Meta:           stored.meta,
		Profiles:       analysis.Classify(stored.data),
		DateColumns:    analysis.DetectDateColumns(stored.data),
		NumericColumns: stored.data.NumericColumns(),
	}, nil
}

// Query returns a column/row-range selection of a dataset
func (s *DataService) Query(ctx context.Context, id string, columns []string, maxRows int) (*QueryResult, error) {
	stored, err := s.get(id)
	if err != nil {
		return nil, err
	}

	view := stored.data
	if len(columns) > 0 {
		view, err = stored.data.Select(columns)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	names := view.Columns()
	cols := make([]dataset.Column, len(names))
	for i, name := range names {
		cols[i], _ = view.Column(name)
	}

	count := view.Len()
	if maxRows > 0 && maxRows < count {
		count = maxRows
	}

	rows := make([]map[string]any, count)
	for row := 0; row < count; row++ {
		record := make(map[string]any, len(names))
		for i, col := range cols {
			record[names[i]] = col.Value(row)
		}
		rows[row] = record
	}

	return &QueryResult{Columns: names, Rows: rows, Count: count}, nil
}

// Insights generates the automated-insight report. A non-empty date/metric
// pair additionally populates trend insights.
func (s *DataService) Insights(ctx context.Context, id, dateCol, metricCol string) (*analysis.InsightReport, error) {
	stored, err := s.get(id)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var report *analysis.InsightReport
	if dateCol != "" && metricCol != "" {
		report, err = analysis.GenerateInsightsWithTrend(stored.data, dateCol, metricCol)
		if err != nil {
			return nil, err
		}
	} else {
		report = analysis.GenerateInsights(stored.data)
	}

	s.logger.InfoContext(ctx, "insights generated",
		slog.String("dataset_id", id),
		slog.Int("statistical", len(report.StatisticalInsights)),
		slog.Int("correlation", len(report.CorrelationInsights)),
		slog.String("duration", time.Since(start).String()),
	)
	return report, nil
}

// Trends prepares the time series for a (date, metric) pair and fits its
// trend. Decomposition is attached when requested and the series is long
// enough; a short series simply omits it.
func (s *DataService) Trends(ctx context.Context, id string, req TrendRequest) (*TrendAnalysis, error) {
	stored, err := s.get(id)
	if err != nil {
		return nil, err
	}

	series, err := analysis.PrepareTimeSeries(stored.data, req.DateColumn, req.MetricColumn)
	if err != nil {
		return nil, err
	}

	trend := analysis.CalculateTrends(series)
	if req.Decompose {
		trend.Decomposition = analysis.SeasonalDecomposition(series, req.Period)
	}

	return &TrendAnalysis{Series: series, Trend: trend}, nil
}

// Correlation computes the correlation matrix over the given numeric
// columns (all numeric columns when empty).
func (s *DataService) Correlation(ctx context.Context, id string, columns []string) (analysis.CorrelationMatrix, error) {
	stored, err := s.get(id)
	if err != nil {
		return analysis.CorrelationMatrix{}, err
	}
	return analysis.CalculateCorrelation(stored.data, columns)
}

// Export serializes a dataset (csv, json, xlsx) or its insight report
// (insights). It returns the document, its content type and a suggested
// filename.
func (s *DataService) Export(ctx context.Context, id, format string, opts exporter.Options) ([]byte, string, string, error) {
	stored, err := s.get(id)
	if err != nil {
		return nil, "", "", err
	}

	base := stored.meta.Name
	if base == "" {
		base = "dataset"
	}

	switch format {
	case "csv":
		data, err := exporter.MarshalCSV(stored.data, opts)
		return data, "text/csv", base + ".csv", err
	case "json":
		data, err := exporter.MarshalJSON(stored.data, opts)
		return data, "application/json", base + ".json", err
	case "xlsx":
		data, err := exporter.MarshalExcel(stored.data, opts)
		return data, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", base + ".xlsx", err
	case "insights":
		data, err := exporter.MarshalReportCSV(analysis.GenerateInsights(stored.data))
		return data, "text/csv", base + "_insights.csv", err
	default:
		return nil, "", "", fmt.Errorf("%w: %s", ErrInvalidFormat, format)
	}
}
