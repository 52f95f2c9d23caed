package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/ruslano69/gssdash/pkg/aggregate"
	"github.com/ruslano69/gssdash/pkg/core/table"
	"github.com/ruslano69/gssdash/pkg/survey"
)

const header = "id,wtss,sex,educ,region,age,coninc,prestg10,mapres10,papres10,sei10,satjob,fechld,fefam,fehire,fepol,fepresch,meovrwrk,extra\n"

var goodRows = []string{
	"1,1.2,male,12,new england,34,100,40,30,50,50.5,very satisfied,agree,agree,IAP,disagree,agree,DK,x",
	"2,0.8,male,16,pacific,89 or older,200,50,IAP,45,,mod. satisfied,disagree,agree,IAP,agree,disagree,agree,y",
	"3,1.0,female,14,south atlantic,45,,45,40,DK,60,IAP,strongly agree,disagree,IAP,disagree,strongly agree,disagree,z",
	"4,1.1,female,,pacific,27,100,IAP,,,,very satisfied,agree,IAP,IAP,disagree,agree,agree,w",
	"5,0.9,female,18,pacific,52,300,60,30,55,70,very satisfied,agree,strongly disagree,IAP,NOT SURE,disagree,agree,v",
}

func csvServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gss2018.csv" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testOptions(srv *httptest.Server) Options {
	src := DefaultSource()
	src.URL = srv.URL + "/gss2018.csv"
	src.Encoding = "utf-8"
	return Options{Name: "test", Source: src, HTTPClient: srv.Client()}
}

func TestBuild(t *testing.T) {
	srv := csvServer(t, header+strings.Join(goodRows, "\n")+"\n")

	d, stats, err := Build(context.Background(), testOptions(srv))
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if stats.RowsLoaded != 5 || stats.Artifacts != 6 || stats.DegenerateArtifacts != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.SourceChecksum == "" || d.ETag != `"`+stats.PageChecksum+`"` {
		t.Errorf("fingerprints not set: %+v, etag=%s", stats, d.ETag)
	}

	wantSummary := []aggregate.GenderRow{
		{Sex: "female"},
		{Sex: "male"},
	}
	if len(d.Summary) != len(wantSummary) {
		t.Fatalf("summary = %+v", d.Summary)
	}
	// доход женщин: (100 + 300) / 2, пропуск не считается
	if d.Summary[0].Income.Float64 != 200 || d.Summary[1].Income.Float64 != 150 {
		t.Errorf("income means = %v / %v", d.Summary[0].Income, d.Summary[1].Income)
	}
	// образование женщин: (14 + 18) / 2
	if d.Summary[0].Education.Float64 != 16 {
		t.Errorf("female education = %v, want 16", d.Summary[0].Education)
	}

	wantCounts := []aggregate.ResponseCount{
		{Sex: "female", Response: survey.Disagree, Count: 1},
		{Sex: "female", Response: survey.StronglyDisagree, Count: 1},
		{Sex: "male", Response: survey.Agree, Count: 2},
	}
	if !reflect.DeepEqual(d.Counts, wantCounts) {
		t.Errorf("counts = %+v, want %+v", d.Counts, wantCounts)
	}

	page := string(d.Page)
	for _, want := range []string{"<h1>Exploring the General Social Survey</h1>", "<td class=\"num\">150.00</td>", "<svg"} {
		if !strings.Contains(page, want) {
			t.Errorf("page does not contain %q", want)
		}
	}

	tables := d.SummaryTables()
	if len(tables) != 2 || tables[1].Len() != 3 {
		t.Errorf("unexpected summary tables")
	}
}

func TestBuild_InMemoryMatchesWorkspace(t *testing.T) {
	srv := csvServer(t, header+strings.Join(goodRows, "\n")+"\n")

	sqlOpts := testOptions(srv)
	viaSQL, _, err := Build(context.Background(), sqlOpts)
	if err != nil {
		t.Fatalf("Build() via SQL failed: %v", err)
	}

	goOpts := testOptions(srv)
	goOpts.InMemoryAggregates = true
	viaGo, _, err := Build(context.Background(), goOpts)
	if err != nil {
		t.Fatalf("Build() in memory failed: %v", err)
	}

	if !reflect.DeepEqual(viaSQL.Summary, viaGo.Summary) {
		t.Errorf("summary differs:\nSQL %+v\nGo  %+v", viaSQL.Summary, viaGo.Summary)
	}
	if !reflect.DeepEqual(viaSQL.Counts, viaGo.Counts) {
		t.Errorf("counts differ:\nSQL %+v\nGo  %+v", viaSQL.Counts, viaGo.Counts)
	}
	if viaSQL.ETag != viaGo.ETag {
		t.Error("same data should produce the same page")
	}
}

func TestBuild_Errors(t *testing.T) {
	badAge := strings.Replace(goodRows[0], ",34,", ",thirty,", 1)
	badResponse := strings.Replace(goodRows[0], "agree,agree,IAP", "agree,maybe,IAP", 1)
	missingColumn := strings.Replace(header, "prestg10", "prestige", 1)

	tests := []struct {
		name string
		path string
		body string
		want error
	}{
		{"source missing", "/missing.csv", header, table.ErrResourceUnavailable},
		{"non-numeric age", "/gss2018.csv", header + badAge + "\n", table.ErrValueConversion},
		{"unknown response level", "/gss2018.csv", header + badResponse + "\n", table.ErrSchemaMismatch},
		{"projected column absent", "/gss2018.csv", missingColumn + goodRows[0] + "\n", table.ErrSchemaMismatch},
		{"ragged csv", "/gss2018.csv", header + "1,2,3\n", table.ErrSchemaMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := csvServer(t, tt.body)
			opts := testOptions(srv)
			opts.Source.URL = srv.URL + tt.path

			d, stats, err := Build(context.Background(), opts)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if d != nil {
				t.Error("dashboard must be nil on error")
			}
			if stats.EndTime.IsZero() {
				t.Error("stats must be finalized on error")
			}
		})
	}
}

func TestBuild_EmptyDataRendersPlaceholders(t *testing.T) {
	srv := csvServer(t, header)

	d, stats, err := Build(context.Background(), testOptions(srv))
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if stats.DegenerateArtifacts != 6 {
		t.Errorf("degenerate = %d, want 6", stats.DegenerateArtifacts)
	}
	if !strings.Contains(string(d.Page), "No data available") {
		t.Error("page should show placeholders")
	}
}
