// Package roster loads the student record store. Every Load returns a fresh
// snapshot; nothing is cached between calls.
package roster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Clark-Hu/gradeboard/internal/domain"
)

var (
	// ErrLoad wraps every failure to read or parse the store.
	ErrLoad = errors.New("roster: load failed")
	// ErrStudentNotFound is returned by Find for an unknown id.
	ErrStudentNotFound = errors.New("roster: student not found")
)

// Source produces a complete roster snapshot.
type Source interface {
	Load(ctx context.Context) (domain.Roster, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (domain.Roster, error)

// Load calls f.
func (f SourceFunc) Load(ctx context.Context) (domain.Roster, error) { return f(ctx) }

// Decode parses a store document. The "etudiants" key is required, nothing may
// follow the document, and student ids must be unique.
func Decode(r io.Reader) (domain.Roster, error) {
	var envelope struct {
		Students json.RawMessage `json:"etudiants"`
	}
	dec := json.NewDecoder(r)
	if err := dec.Decode(&envelope); err != nil {
		return domain.Roster{}, fmt.Errorf("decode roster: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return domain.Roster{}, fmt.Errorf("decode roster: unexpected data after document")
	}
	if len(envelope.Students) == 0 {
		return domain.Roster{}, fmt.Errorf("decode roster: missing \"etudiants\" key")
	}

	var doc domain.Roster
	if err := json.Unmarshal(envelope.Students, &doc.Students); err != nil {
		return domain.Roster{}, fmt.Errorf("decode roster: %w", err)
	}
	seen := make(map[int]struct{}, len(doc.Students))
	for _, s := range doc.Students {
		if _, dup := seen[s.ID]; dup {
			return domain.Roster{}, fmt.Errorf("decode roster: duplicate student id %d", s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return doc, nil
}

// Find returns the student with the given id.
func Find(r domain.Roster, id int) (domain.Student, error) {
	for _, s := range r.Students {
		if s.ID == id {
			return s, nil
		}
	}
	return domain.Student{}, fmt.Errorf("%w: id %d", ErrStudentNotFound, id)
}

func loadErr(err error) error {
	return fmt.Errorf("%w: %w", ErrLoad, err)
}
