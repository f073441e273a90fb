package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"snakebite-dashboard/internal/metrics"
	"snakebite-dashboard/internal/model"
	"snakebite-dashboard/internal/pipeline"
	"snakebite-dashboard/pkg/router"
)

// Error codes sent in ErrorResponse.Error.
const (
	errDatabase     = "Database operation failed"
	errNoFile       = "No file provided"
	errInvalidForm  = "Invalid form data"
	errTooLarge     = "File too large"
	errInvalidFile  = "Invalid upload"
	errInvalidQuery = "Invalid query"
)

// Store is the storage the handlers read from and import into.
type Store interface {
	ListCases(ctx context.Context) ([]model.CaseRecord, error)
	CaseDates(ctx context.Context) ([]model.DateEvent, error)
	MonthlyAggregates(ctx context.Context) ([]model.MonthlyAggregate, error)
	InsertCases(ctx context.Context, batches [][]model.CaseRecord) (int, error)
	Ping(ctx context.Context) error
}

// Options tunes the handlers.
type Options struct {
	BatchSize      int
	MaxUploadBytes int64
	Production     bool
}

// SnakebiteHandler serves the case endpoints.
type SnakebiteHandler struct {
	store    Store
	importer *pipeline.Importer
	opts     Options
	now      func() time.Time
}

func NewSnakebiteHandler(store Store, opts Options) *SnakebiteHandler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 32 << 20
	}
	return &SnakebiteHandler{
		store:    store,
		importer: pipeline.NewImporter(store, opts.BatchSize),
		opts:     opts,
		now:      time.Now,
	}
}

// CasesResponse is the read endpoint payload.
type CasesResponse struct {
	Monthly      []model.MonthlyAggregate `json:"monthly"`
	DailyDetails []model.CaseRecord       `json:"dailyDetails"`
}

// SeriesResponse is the chart variant of the read endpoint.
type SeriesResponse struct {
	Daily   []model.DateEvent        `json:"daily"`
	Monthly []model.MonthlyAggregate `json:"monthly"`
}

// ChartResponse holds the points of one granularity.
type ChartResponse struct {
	Group  model.Granularity  `json:"group"`
	Points []model.ChartPoint `json:"points"`
}

// HealthResponse reports process and database liveness.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// GetCases returns monthly aggregates and every case
// @Summary List cases
// @Description Monthly aggregates plus all case rows, optionally searched and sorted
// @Tags snakebite
// @Produce json
// @Param q query string false "Case-insensitive search across all columns"
// @Param sort query string false "Column key to sort by, e.g. Date or Snake_Type"
// @Param order query string false "asc or desc"
// @Success 200 {object} CasesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/snakebite [get]
func (h *SnakebiteHandler) GetCases(w http.ResponseWriter, r *http.Request) {
	var (
		monthly []model.MonthlyAggregate
		cases   []model.CaseRecord
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		monthly, err = h.store.MonthlyAggregates(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		cases, err = h.store.ListCases(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.writeError(w, http.StatusInternalServerError, errDatabase, err)
		return
	}

	cases, err := h.shapeTable(r, cases)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, errInvalidQuery, err)
		return
	}
	writeJSON(w, http.StatusOK, CasesResponse{Monthly: monthly, DailyDetails: cases})
}

// shapeTable applies the q, sort and order query parameters.
func (h *SnakebiteHandler) shapeTable(r *http.Request, cases []model.CaseRecord) ([]model.CaseRecord, error) {
	query := r.URL.Query()
	cases = pipeline.FilterCases(cases, query.Get("q"))

	key := query.Get("sort")
	order := strings.ToLower(query.Get("order"))
	if order != "" && order != "asc" && order != "desc" {
		return nil, fmt.Errorf("order must be asc or desc, got %q", order)
	}
	if key == "" {
		return cases, nil
	}
	if err := pipeline.SortCases(cases, key, order == "desc"); err != nil {
		return nil, err
	}
	return cases, nil
}

// GetSeries returns the raw chart inputs
// @Summary Chart series
// @Description Every case date plus the monthly aggregates
// @Tags snakebite
// @Produce json
// @Success 200 {object} SeriesResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/snakebite/series [get]
func (h *SnakebiteHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	var resp SeriesResponse
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		resp.Monthly, err = h.store.MonthlyAggregates(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		resp.Daily, err = h.store.CaseDates(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.writeError(w, http.StatusInternalServerError, errDatabase, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetChart returns chart points for one granularity
// @Summary Chart points
// @Description Daily, monthly or quarterly counts with cumulative totals
// @Tags snakebite
// @Produce json
// @Param group path string true "date, month or quarter"
// @Success 200 {object} ChartResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/snakebite/chart/{group} [get]
func (h *SnakebiteHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	group, ok := model.ParseGranularity(router.Segment(r, 3))
	if !ok {
		h.writeError(w, http.StatusBadRequest, errInvalidQuery,
			fmt.Errorf("unknown chart group %q", router.Segment(r, 3)))
		return
	}

	var (
		events []model.DateEvent
		rows   []model.MonthlyAggregate
		err    error
	)
	if group == model.GranularityDaily {
		events, err = h.store.CaseDates(r.Context())
	} else {
		rows, err = h.store.MonthlyAggregates(r.Context())
	}
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, errDatabase, err)
		return
	}
	writeJSON(w, http.StatusOK, ChartResponse{Group: group, Points: pipeline.ChartSeries(group, events, rows)})
}

// ImportCases stores the rows of an uploaded file
// @Summary Import cases
// @Description Upload a CSV (or JSON array) of cases; rows are normalized and inserted in batches of 100
// @Tags snakebite
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV or JSON file"
// @Success 200 {object} model.ImportResult
// @Failure 400 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/snakebite [post]
func (h *SnakebiteHandler) ImportCases(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, http.StatusRequestEntityTooLarge, errTooLarge, err)
			return
		}
		if errors.Is(err, http.ErrNotMultipart) {
			h.writeError(w, http.StatusBadRequest, errNoFile, err)
			return
		}
		h.writeError(w, http.StatusBadRequest, errInvalidForm, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, errNoFile, nil)
		return
	}
	defer file.Close()

	format := pipeline.FormatCSV
	if strings.EqualFold(filepath.Ext(header.Filename), ".json") ||
		strings.HasPrefix(header.Header.Get("Content-Type"), "application/json") {
		format = pipeline.FormatJSON
	}

	result, err := h.importer.ImportFormat(r.Context(), file, format)
	switch {
	case errors.Is(err, pipeline.ErrMalformedCSV), errors.Is(err, pipeline.ErrMalformedJSON):
		h.writeError(w, http.StatusBadRequest, errInvalidFile, err)
		return
	case err != nil:
		h.writeError(w, http.StatusInternalServerError, errDatabase, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ExportCases downloads the (optionally searched and sorted) table as CSV
// @Summary Export cases
// @Description CSV download of the case table; accepts the same q, sort and order parameters as the list endpoint
// @Tags snakebite
// @Produce text/csv
// @Param q query string false "Case-insensitive search across all columns"
// @Param sort query string false "Column key to sort by"
// @Param order query string false "asc or desc"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/snakebite/export [get]
func (h *SnakebiteHandler) ExportCases(w http.ResponseWriter, r *http.Request) {
	cases, err := h.store.ListCases(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, errDatabase, err)
		return
	}
	cases, err = h.shapeTable(r, cases)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, errInvalidQuery, err)
		return
	}

	name := pipeline.ExportFileName("snakebite", h.now())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if err := pipeline.WriteCSV(w, cases); err != nil {
		// Headers are already sent.
		fmt.Printf("❌ Export failed: %v\n", err)
		return
	}
	metrics.RecordRows("exported", len(cases))
}

// Health reports liveness
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *SnakebiteHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Database: "down"})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Database: "up"})
}
