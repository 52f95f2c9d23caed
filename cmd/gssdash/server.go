package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/ruslano69/gssdash/pkg/dashboard"
	"github.com/ruslano69/gssdash/pkg/xlsx"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// server serves the dashboard built at startup. All state is read-only.
type server struct {
	dash  *dashboard.Dashboard
	debug bool
	built time.Time
}

func newServer(d *dashboard.Dashboard, debug bool) *server {
	return &server{dash: d, debug: debug, built: d.Stats.EndTime}
}

// routes builds the chi router with all middleware and routes.
func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(zerologMiddleware)
	r.Use(middleware.Recoverer)

	r.Method(http.MethodGet, "/", gzhttp.GzipHandler(http.HandlerFunc(s.handlePage)))
	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/export/summary.xlsx", s.handleExport)

	return r
}

// handlePage writes the composed page. The body never changes after startup,
// so the ETag is stable for the process lifetime. The ETag is weak because
// gzip and identity encodings of the page share it.
func (s *server) handlePage(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	if s.debug {
		h.Set("Cache-Control", "no-store")
	} else {
		h.Set("Cache-Control", "no-cache")
		h.Set("ETag", "W/"+s.dash.ETag)
		if etagMatch(r.Header.Get("If-None-Match"), s.dash.ETag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	_, _ = w.Write(s.dash.Page)
}

// etagMatch reports whether an If-None-Match header matches etag using weak
// comparison: "*" matches, list members are compared with any W/ prefix removed.
func etagMatch(header, etag string) bool {
	etag = strings.TrimPrefix(etag, "W/")
	for _, tag := range strings.Split(header, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "*" || strings.TrimPrefix(tag, "W/") == etag {
			return true
		}
	}
	return false
}

type healthResponse struct {
	Status     string    `json:"status"`
	Dashboard  string    `json:"dashboard"`
	Rows       int       `json:"rows"`
	Artifacts  int       `json:"artifacts"`
	Degenerate int       `json:"degenerate"`
	BuiltAt    time.Time `json:"built_at"`
	ETag       string    `json:"etag"`
}

func (s *server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:     "ok",
		Dashboard:  s.dash.Name,
		Rows:       s.dash.Stats.RowsLoaded,
		Artifacts:  s.dash.Stats.Artifacts,
		Degenerate: s.dash.Stats.DegenerateArtifacts,
		BuiltAt:    s.built,
		ETag:       s.dash.ETag,
	})
}

// handleExport streams the two summary tables as a workbook.
func (s *server) handleExport(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := xlsx.Write(&buf, s.dash.SummaryTables()...); err != nil {
		log.Error().Err(err).Msg("xlsx export failed")
		msg := "export failed"
		if s.debug {
			msg = err.Error()
		}
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	h := w.Header()
	h.Set("Content-Type", xlsxContentType)
	h.Set("Content-Disposition", `attachment; filename="gss_summary.xlsx"`)
	h.Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
