package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Clark-Hu/gradeboard/internal/domain"
	"github.com/Clark-Hu/gradeboard/internal/grades"
	"github.com/Clark-Hu/gradeboard/internal/logging"
	"github.com/Clark-Hu/gradeboard/internal/roster"
)

const fixture = `{"etudiants":[
  {"id":1,"prenom":"Ada","nom":"Lovelace","email":"ada@example.com","UV":{"SR03":12,"LO18":14}},
  {"id":2,"prenom":"Grace","nom":"Hopper","email":"grace@example.com","UV":{}}
]}`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	if err := os.WriteFile(path, []byte(fixture), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestUpstreamHandlerRoundTrip(t *testing.T) {
	path := writeFixture(t)
	ts := httptest.NewServer(upstreamHandler(roster.NewFileSource(path), "secret", logging.Discard()))
	defer ts.Close()

	src, err := roster.NewHTTPSource(ts.URL, "secret", time.Second, logging.Discard())
	if err != nil {
		t.Fatalf("NewHTTPSource: %v", err)
	}
	doc, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(doc.Students) != 2 {
		t.Fatalf("students = %d, want 2", len(doc.Students))
	}
	if got := doc.Students[0].Grades; len(got) != 2 || got[0].Course != "SR03" {
		t.Fatalf("grade order lost: %v", got)
	}
}

func TestUpstreamHandlerRejectsWrongKey(t *testing.T) {
	path := writeFixture(t)
	h := upstreamHandler(roster.NewFileSource(path), "secret", logging.Discard())

	req := httptest.NewRequest(http.MethodGet, roster.RosterPath, nil)
	req.Header.Set("X-API-Key", "nope")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestUpstreamHandlerStoreFailure(t *testing.T) {
	src := roster.SourceFunc(func(ctx context.Context) (domain.Roster, error) {
		return domain.Roster{}, errors.New("gone")
	})
	rec := httptest.NewRecorder()
	upstreamHandler(src, "", logging.Discard()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, roster.RosterPath, nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestWriteSummary(t *testing.T) {
	students := []domain.Student{
		{ID: 1, Grades: domain.Grades{{Course: "SR03", Score: 12}, {Course: "LO18", Score: 14}}},
		{ID: 2, Grades: domain.Grades{}},
	}
	var buf bytes.Buffer
	if err := writeSummary(&buf, "users.json", grades.Aggregate(students)); err != nil {
		t.Fatalf("writeSummary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"1 graded, 1 ungraded", "10-15  1", "UV SR03: 1 score(s)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestValidateCommand(t *testing.T) {
	path := writeFixture(t)
	app := newApp()
	var buf bytes.Buffer
	app.Writer = &buf

	if err := app.Run(context.Background(), []string{"rostertool", "--log-format", "json", "validate", "--file", path}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(buf.String(), "1 graded, 1 ungraded") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}

func TestValidateCommandRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"etudiants":[`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	app := newApp()
	app.Writer = &bytes.Buffer{}

	err := app.Run(context.Background(), []string{"rostertool", "validate", "--file", path})
	if !errors.Is(err, roster.ErrLoad) {
		t.Fatalf("err = %v, want ErrLoad", err)
	}
}
