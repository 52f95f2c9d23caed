package main

import (
	"bytes"
	"compress/gzip"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ruslano69/gssdash/pkg/aggregate"
	"github.com/ruslano69/gssdash/pkg/dashboard"
	"github.com/ruslano69/gssdash/pkg/resultlog"
	"github.com/ruslano69/gssdash/pkg/survey"
)

// newTestDashboard собирает Dashboard вручную, без загрузки источника
func newTestDashboard() *dashboard.Dashboard {
	page := "<!DOCTYPE html><html><body>" + strings.Repeat("<p>GSS</p>", 400) + "</body></html>"
	return &dashboard.Dashboard{
		Name: "test",
		Page: []byte(page),
		ETag: `"0123456789abcdef"`,
		Summary: []aggregate.GenderRow{
			{
				Sex:                "female",
				Income:             sql.NullFloat64{Float64: 200, Valid: true},
				JobPrestige:        sql.NullFloat64{Float64: 52.5, Valid: true},
				SocioeconomicIndex: sql.NullFloat64{Float64: 57.5, Valid: true},
				Education:          sql.NullFloat64{Float64: 16, Valid: true},
			},
		},
		Counts: []aggregate.ResponseCount{
			{Sex: "female", Response: survey.Agree, Count: 2},
		},
		Stats: resultlog.Stats{RowsLoaded: 5, Artifacts: 6},
	}
}

func newTestRouter(debug bool) http.Handler {
	return newServer(newTestDashboard(), debug).routes()
}

func TestHandlePage(t *testing.T) {
	h := newTestRouter(false)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET / status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Header().Get("ETag") != `W/"0123456789abcdef"` {
		t.Errorf("ETag = %q", rec.Header().Get("ETag"))
	}
	if !bytes.Equal(rec.Body.Bytes(), newTestDashboard().Page) {
		t.Error("тело ответа отличается от собранной страницы")
	}
}

func TestHandlePage_IdenticalAcrossRequests(t *testing.T) {
	h := newTestRouter(false)

	var bodies [][]byte
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		bodies = append(bodies, rec.Body.Bytes())
	}
	for i := 1; i < len(bodies); i++ {
		if !bytes.Equal(bodies[0], bodies[i]) {
			t.Fatalf("ответ %d отличается от первого", i)
		}
	}
}

func TestHandlePage_NotModified(t *testing.T) {
	h := newTestRouter(false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("If-None-Match", `"0123456789abcdef"`)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotModified {
		t.Errorf("status = %d, want 304", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("304 с телом длиной %d", rec.Body.Len())
	}
}

func TestHandlePage_IfNoneMatchForms(t *testing.T) {
	h := newTestRouter(false)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"strong", `"0123456789abcdef"`, http.StatusNotModified},
		{"weak", `W/"0123456789abcdef"`, http.StatusNotModified},
		{"list", `"stale", W/"0123456789abcdef"`, http.StatusNotModified},
		{"wildcard", `*`, http.StatusNotModified},
		{"other tag", `"fedcba9876543210"`, http.StatusOK},
		{"unquoted", `0123456789abcdef`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("If-None-Match", tt.header)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("If-None-Match %s: status = %d, want %d", tt.header, rec.Code, tt.want)
			}
		})
	}
}

func TestHandlePage_GzipSharesWeakETag(t *testing.T) {
	h := newTestRouter(false)

	plain := httptest.NewRecorder()
	h.ServeHTTP(plain, httptest.NewRequest(http.MethodGet, "/", nil))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	zipped := httptest.NewRecorder()
	h.ServeHTTP(zipped, req)

	if zipped.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", zipped.Header().Get("Content-Encoding"))
	}
	for name, rec := range map[string]*httptest.ResponseRecorder{"identity": plain, "gzip": zipped} {
		if etag := rec.Header().Get("ETag"); !strings.HasPrefix(etag, "W/") {
			t.Errorf("%s ETag = %q, want weak validator", name, etag)
		}
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("If-None-Match", zipped.Header().Get("ETag"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotModified {
		t.Errorf("revalidation with gzip ETag: status = %d, want 304", rec.Code)
	}
}

func TestHandlePage_DebugNoStore(t *testing.T) {
	h := newTestRouter(true)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("If-None-Match", `"0123456789abcdef"`)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("debug: status = %d, want 200", rec.Code)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", cc)
	}
	if rec.Header().Get("ETag") != "" {
		t.Error("debug: ETag не должен выставляться")
	}
}

func TestHandlePage_Gzip(t *testing.T) {
	h := newTestRouter(false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", rec.Header().Get("Content-Encoding"))
	}
	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("gzip.NewReader: %v", err)
	}
	body, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("read gzip body: %v", err)
	}
	if !bytes.Equal(body, newTestDashboard().Page) {
		t.Error("распакованное тело отличается от страницы")
	}
}

func TestUnknownRoute(t *testing.T) {
	h := newTestRouter(false)

	for _, path := range []string{"/index.html", "/api/data", "/export"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			if rec.Code != http.StatusNotFound {
				t.Errorf("GET %s status = %d, want 404", path, rec.Code)
			}
		})
	}
}

func TestHandleHealthz(t *testing.T) {
	h := newTestRouter(false)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp healthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Rows != 5 || resp.Artifacts != 6 {
		t.Errorf("healthz = %+v", resp)
	}
}

func TestHandleMetrics(t *testing.T) {
	h := newTestRouter(false)

	// запрос к / должен попасть в счетчик
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "gssdash_http_requests_total") {
		t.Error("метрика gssdash_http_requests_total не найдена")
	}
}

func TestHandleExport(t *testing.T) {
	h := newTestRouter(false)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export/summary.xlsx", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Content-Type") != xlsxContentType {
		t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
	}

	f, err := excelize.OpenReader(rec.Body)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	if n := len(f.GetSheetList()); n != 2 {
		t.Errorf("sheets = %d, want 2", n)
	}
}
