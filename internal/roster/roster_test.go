package roster

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Clark-Hu/gradeboard/internal/config"
	"github.com/Clark-Hu/gradeboard/internal/domain"
	"github.com/Clark-Hu/gradeboard/internal/logging"
)

const sampleDoc = `{
  "etudiants": [
    {"id": 1, "prenom": "Ada", "nom": "Lovelace", "email": "ada@example.com", "UV": {"SR03": 10, "LO18": 8}},
    {"id": 2, "prenom": "Grace", "nom": "Hopper", "email": "grace@example.com", "UV": {"SR03": 20}},
    {"id": 3, "prenom": "Alan", "nom": "Turing", "email": "alan@example.com", "UV": {}}
  ]
}`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestDecode(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(doc.Students) != 3 {
		t.Fatalf("len = %d, want 3", len(doc.Students))
	}
	ada := doc.Students[0]
	if ada.FirstName != "Ada" || ada.LastName != "Lovelace" || ada.Email != "ada@example.com" {
		t.Fatalf("unexpected student: %+v", ada)
	}
	if ada.Grades[0].Course != "SR03" || ada.Grades[1].Course != "LO18" {
		t.Fatalf("grade order lost: %v", ada.Grades)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr string
	}{
		{"malformed", `{"etudiants": [`, "decode roster"},
		{"duplicate id", `{"etudiants":[{"id":1},{"id":1}]}`, "duplicate student id 1"},
		{"bad score", `{"etudiants":[{"id":1,"UV":{"SR03":"x"}}]}`, "SR03"},
		{"trailing data", `{"etudiants":[]} junk`, "unexpected data after document"},
		{"second document", `{"etudiants":[]}{"etudiants":[]}`, "unexpected data after document"},
		{"empty object", `{}`, "missing \"etudiants\" key"},
		{"wrong key", `{"students":[{"id":1}]}`, "missing \"etudiants\" key"},
		{"not an object", `[]`, "decode roster"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.payload))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Decode error = %v, want contains %q", err, tt.wantErr)
			}
		})
	}
}

func TestFind(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	s, err := Find(doc, 2)
	if err != nil || s.FirstName != "Grace" {
		t.Fatalf("Find(2) = %+v, %v", s, err)
	}
	if _, err := Find(doc, 42); !errors.Is(err, ErrStudentNotFound) {
		t.Fatalf("Find(42) error = %v, want ErrStudentNotFound", err)
	}
}

func TestFileSourceReadsFreshEachTime(t *testing.T) {
	path := writeFile(t, sampleDoc)
	src := NewFileSource(path)

	first, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(first.Students) != 3 {
		t.Fatalf("len = %d, want 3", len(first.Students))
	}

	if err := os.WriteFile(path, []byte(`{"etudiants":[{"id":7,"UV":{"AI01":12}}]}`), 0o600); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	second, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load after rewrite: %v", err)
	}
	if len(second.Students) != 1 || second.Students[0].ID != 7 {
		t.Fatalf("expected rewritten roster, got %+v", second.Students)
	}
}

func TestFileSourceErrors(t *testing.T) {
	missing := NewFileSource(filepath.Join(t.TempDir(), "nope.json"))
	if _, err := missing.Load(context.Background()); !errors.Is(err, ErrLoad) {
		t.Fatalf("missing file error = %v, want ErrLoad", err)
	}

	broken := NewFileSource(writeFile(t, "{not json"))
	if _, err := broken.Load(context.Background()); !errors.Is(err, ErrLoad) {
		t.Fatalf("malformed file error = %v, want ErrLoad", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok := NewFileSource(writeFile(t, sampleDoc))
	if _, err := ok.Load(ctx); !errors.Is(err, ErrLoad) || !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled load error = %v", err)
	}
}

type fakeLister struct {
	students []domain.Student
	err      error
}

func (f fakeLister) List(ctx context.Context) ([]domain.Student, error) {
	return f.students, f.err
}

func TestRepositorySource(t *testing.T) {
	src := &RepositorySource{Students: fakeLister{students: []domain.Student{{ID: 1}}}}
	doc, err := src.Load(context.Background())
	if err != nil || len(doc.Students) != 1 {
		t.Fatalf("Load = %+v, %v", doc, err)
	}

	failing := &RepositorySource{Students: fakeLister{err: errors.New("connection refused")}}
	if _, err := failing.Load(context.Background()); !errors.Is(err, ErrLoad) {
		t.Fatalf("Load error = %v, want ErrLoad", err)
	}
}

func TestNewSelectsBackend(t *testing.T) {
	logger := logging.Discard()

	src, err := New(config.Config{StoreBackend: config.BackendFile, DataPath: "x.json"}, nil, logger)
	if err != nil {
		t.Fatalf("file backend: %v", err)
	}
	if _, ok := src.(*FileSource); !ok {
		t.Fatalf("file backend returned %T", src)
	}

	src, err = New(config.Config{StoreBackend: config.BackendHTTP, RosterURL: "http://localhost:9099", RosterTimeoutSecs: 1}, nil, logger)
	if err != nil {
		t.Fatalf("http backend: %v", err)
	}
	if _, ok := src.(*HTTPSource); !ok {
		t.Fatalf("http backend returned %T", src)
	}

	if _, err := New(config.Config{StoreBackend: config.BackendPostgres}, nil, logger); err == nil {
		t.Fatalf("postgres backend without repository should fail")
	}
	src, err = New(config.Config{StoreBackend: config.BackendPostgres}, fakeLister{}, logger)
	if err != nil {
		t.Fatalf("postgres backend: %v", err)
	}
	if _, ok := src.(*RepositorySource); !ok {
		t.Fatalf("postgres backend returned %T", src)
	}

	if _, err := New(config.Config{StoreBackend: "redis"}, nil, logger); err == nil {
		t.Fatalf("unknown backend should fail")
	}
}
