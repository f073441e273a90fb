package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"snakebite-dashboard/internal/model"
	"snakebite-dashboard/internal/store"
	"snakebite-dashboard/pkg/router"
)

const sampleCSV = "Date,Sex,Age,Snake Type,SAV Volumn\n" +
	"2019-01-05,M,30,Cobra,20\n" +
	",,,,\n" +
	"1/20/2019,F,N/A,Krait,\n" +
	"2019-04-02,M,12,Viper,NaN\n"

// failingStore fails every call with err.
type failingStore struct{ err error }

func (f failingStore) ListCases(context.Context) ([]model.CaseRecord, error) { return nil, f.err }
func (f failingStore) CaseDates(context.Context) ([]model.DateEvent, error)  { return nil, f.err }
func (f failingStore) MonthlyAggregates(context.Context) ([]model.MonthlyAggregate, error) {
	return nil, f.err
}
func (f failingStore) InsertCases(context.Context, [][]model.CaseRecord) (int, error) {
	return 0, f.err
}
func (f failingStore) Ping(context.Context) error { return f.err }

func newTestRouter(t *testing.T, s Store, opts Options) (*router.Router, *SnakebiteHandler) {
	t.Helper()
	h := NewSnakebiteHandler(s, opts)
	h.now = func() time.Time { return time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC) }

	r := router.New()
	r.GET("/api/snakebite", h.GetCases)
	r.POST("/api/snakebite", h.ImportCases)
	r.GET("/api/snakebite/series", h.GetSeries)
	r.GET("/api/snakebite/export", h.ExportCases)
	r.GET("/api/snakebite/chart/*", h.GetChart)
	r.GET("/health", h.Health)
	return r, h
}

func openSQLiteStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), store.Config{
		Driver:      "sqlite3",
		Name:        filepath.Join(t.TempDir(), "cases.db"),
		AutoMigrate: true,
	})
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func uploadRequest(t *testing.T, filename, body string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(body)); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/snakebite", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func do(r *router.Router, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %T: %v\n%s", v, err, rec.Body.String())
	}
	return v
}

func TestImportThenRead(t *testing.T) {
	r, _ := newTestRouter(t, openSQLiteStore(t), Options{})

	rec := do(r, uploadRequest(t, "cases.csv", sampleCSV))
	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d: %s", rec.Code, rec.Body.String())
	}
	result := decode[model.ImportResult](t, rec)
	if !result.Success || result.Inserted != 3 || result.Skipped != 1 || result.Batches != 1 {
		t.Fatalf("import result = %+v", result)
	}
	if result.ImportID == "" || len(result.Sample) != 3 {
		t.Errorf("import id %q, sample %d", result.ImportID, len(result.Sample))
	}

	rec = do(r, httptest.NewRequest(http.MethodGet, "/api/snakebite", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("read status = %d: %s", rec.Code, rec.Body.String())
	}
	cases := decode[CasesResponse](t, rec)
	if len(cases.DailyDetails) != 3 {
		t.Fatalf("dailyDetails = %d, want 3", len(cases.DailyDetails))
	}
	if d := cases.DailyDetails[1]; *d.Date != "2019-01-20" || d.Age != nil || d.SAVVolume != 0 {
		t.Errorf("second case = %+v", d)
	}
	want := []model.MonthlyAggregate{
		{Year: 2019, MonthStart: "2019-01-01", MonthName: "January", MonthlyCount: 2, YTDCount: 2},
		{Year: 2019, MonthStart: "2019-04-01", MonthName: "April", MonthlyCount: 1, YTDCount: 3},
	}
	if len(cases.Monthly) != len(want) {
		t.Fatalf("monthly = %+v", cases.Monthly)
	}
	for i := range want {
		if cases.Monthly[i] != want[i] {
			t.Errorf("monthly[%d] = %+v, want %+v", i, cases.Monthly[i], want[i])
		}
	}
}

func TestReadSearchAndSort(t *testing.T) {
	r, _ := newTestRouter(t, openSQLiteStore(t), Options{})
	if rec := do(r, uploadRequest(t, "cases.csv", sampleCSV)); rec.Code != http.StatusOK {
		t.Fatalf("import status = %d", rec.Code)
	}

	rec := do(r, httptest.NewRequest(http.MethodGet, "/api/snakebite?q=KRAIT", nil))
	if got := decode[CasesResponse](t, rec).DailyDetails; len(got) != 1 || *got[0].SnakeType != "Krait" {
		t.Errorf("search = %+v", got)
	}

	rec = do(r, httptest.NewRequest(http.MethodGet, "/api/snakebite?sort=Age&order=desc", nil))
	got := decode[CasesResponse](t, rec).DailyDetails
	if len(got) != 3 || *got[0].Age != 30 || *got[1].Age != 12 || got[2].Age != nil {
		t.Errorf("sorted by age desc = %+v", got)
	}

	for _, q := range []string{"sort=Nope", "sort=Age&order=sideways"} {
		rec = do(r, httptest.NewRequest(http.MethodGet, "/api/snakebite?"+q, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", q, rec.Code)
		}
	}
}

func TestSeriesAndChart(t *testing.T) {
	r, _ := newTestRouter(t, openSQLiteStore(t), Options{})
	if rec := do(r, uploadRequest(t, "cases.csv", sampleCSV)); rec.Code != http.StatusOK {
		t.Fatalf("import status = %d", rec.Code)
	}

	rec := do(r, httptest.NewRequest(http.MethodGet, "/api/snakebite/series", nil))
	series := decode[SeriesResponse](t, rec)
	if len(series.Daily) != 3 || len(series.Monthly) != 2 {
		t.Errorf("series = %+v", series)
	}

	rec = do(r, httptest.NewRequest(http.MethodGet, "/api/snakebite/chart/quarter", nil))
	var quarter struct {
		Group  string                 `json:"group"`
		Points []model.QuarterlyPoint `json:"points"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &quarter); err != nil {
		t.Fatal(err)
	}
	wantQ := []model.QuarterlyPoint{
		{Date: "2019-Q1", QuarterlyCount: 2, YTDCount: 2},
		{Date: "2019-Q2", QuarterlyCount: 1, YTDCount: 3},
	}
	if quarter.Group != "quarter" || len(quarter.Points) != 2 ||
		quarter.Points[0] != wantQ[0] || quarter.Points[1] != wantQ[1] {
		t.Errorf("quarter chart = %+v", quarter)
	}

	rec = do(r, httptest.NewRequest(http.MethodGet, "/api/snakebite/chart/date", nil))
	var daily struct {
		Points []model.DailyPoint `json:"points"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &daily); err != nil {
		t.Fatal(err)
	}
	if len(daily.Points) != 3 || daily.Points[2].CumulativeCount != 3 {
		t.Errorf("daily chart = %+v", daily.Points)
	}

	rec = do(r, httptest.NewRequest(http.MethodGet, "/api/snakebite/chart/week", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown group status = %d, want 400", rec.Code)
	}
}

func TestExport(t *testing.T) {
	r, _ := newTestRouter(t, openSQLiteStore(t), Options{})
	if rec := do(r, uploadRequest(t, "cases.csv", sampleCSV)); rec.Code != http.StatusOK {
		t.Fatalf("import status = %d", rec.Code)
	}

	rec := do(r, httptest.NewRequest(http.MethodGet, "/api/snakebite/export?q=cobra", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "snakebite_2024-03-09.csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("export lines = %d, want 2:\n%s", len(lines), rec.Body.String())
	}
	if !strings.HasPrefix(lines[0], `"Date","Sex","Age"`) {
		t.Errorf("header = %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], `"2019-01-05","M",30,"Cobra",20,`) {
		t.Errorf("row = %s", lines[1])
	}
}

func TestImportErrors(t *testing.T) {
	r, _ := newTestRouter(t, openSQLiteStore(t), Options{MaxUploadBytes: 1024})

	req := httptest.NewRequest(http.MethodPost, "/api/snakebite", strings.NewReader("Date\n2019-01-01\n"))
	req.Header.Set("Content-Type", "text/csv")
	rec := do(r, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("non-multipart status = %d, want 400", rec.Code)
	}
	if body := decode[ErrorResponse](t, rec); body.Error != errNoFile {
		t.Errorf("error = %q, want %q", body.Error, errNoFile)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("other", "x")
	_ = mw.Close()
	req = httptest.NewRequest(http.MethodPost, "/api/snakebite", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec = do(r, req)
	if body := decode[ErrorResponse](t, rec); rec.Code != http.StatusBadRequest || body.Error != errNoFile || body.Stack != "" {
		t.Errorf("missing file = %d %+v", rec.Code, body)
	}

	rec = do(r, uploadRequest(t, "cases.csv", ""))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty csv status = %d, want 400", rec.Code)
	}

	for name, body := range map[string]string{
		"blob.csv":     "\x00\x01PK\x03\x04garbage,\"unterminated\nmore",
		"contacts.csv": "Name,Email\nAda,ada@example.com\n",
	} {
		rec = do(r, uploadRequest(t, name, body))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", name, rec.Code)
			continue
		}
		if resp := decode[ErrorResponse](t, rec); resp.Error != errInvalidFile {
			t.Errorf("%s error = %q, want %q", name, resp.Error, errInvalidFile)
		}
	}

	rec = do(r, uploadRequest(t, "cases.json", `{"not": "an array"`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad json status = %d, want 400", rec.Code)
	}

	rec = do(r, uploadRequest(t, "big.csv", "Date\n"+strings.Repeat("2019-01-01\n", 200)))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("oversized status = %d, want 413", rec.Code)
	}
}

func TestImportJSON(t *testing.T) {
	r, _ := newTestRouter(t, openSQLiteStore(t), Options{})
	body := `[{"Date":"2019-02-01","Sex":"F","Age":7},{"Diagnostic":"none"}]`
	rec := do(r, uploadRequest(t, "cases.json", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if res := decode[model.ImportResult](t, rec); res.Inserted != 1 || res.Rejected != 1 {
		t.Errorf("result = %+v", res)
	}
}

func TestStorageFailure(t *testing.T) {
	boom := errors.New("dial tcp 127.0.0.1:3306: connection refused")

	r, _ := newTestRouter(t, failingStore{err: boom}, Options{})
	for _, path := range []string{"/api/snakebite", "/api/snakebite/series", "/api/snakebite/chart/month", "/api/snakebite/export"} {
		rec := do(r, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("%s status = %d, want 500", path, rec.Code)
			continue
		}
		body := decode[ErrorResponse](t, rec)
		if body.Error != errDatabase || body.Message != boom.Error() || body.Stack == "" {
			t.Errorf("%s body = %+v", path, body)
		}
		if !strings.Contains(body.Stack, "writeError") {
			t.Errorf("%s stack is not the reporting handler's:\n%s", path, body.Stack)
		}
	}

	rec := do(r, uploadRequest(t, "cases.csv", sampleCSV))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("import status = %d, want 500", rec.Code)
	}

	prod, _ := newTestRouter(t, failingStore{err: boom}, Options{Production: true})
	rec = do(prod, httptest.NewRequest(http.MethodGet, "/api/snakebite", nil))
	if body := decode[ErrorResponse](t, rec); body.Stack != "" {
		t.Errorf("production payload leaked a stack trace")
	}
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t, openSQLiteStore(t), Options{})
	rec := do(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || decode[HealthResponse](t, rec).Database != "up" {
		t.Errorf("healthy = %d %s", rec.Code, rec.Body.String())
	}

	r, _ = newTestRouter(t, failingStore{err: store.ErrUnavailable}, Options{})
	rec = do(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("unhealthy status = %d, want 503", rec.Code)
	}
}
