package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CourseCode identifies a UV (course unit). Codes are opaque and never validated.
type CourseCode string

// Score is a single numeric grade. No range is assumed.
type Score float64

// Grade pairs a course with the score a student obtained in it.
type Grade struct {
	Course CourseCode
	Score  Score
}

// Grades holds a student's scores in the order they appear in the source document.
// Course codes are unique within a Grades value.
type Grades []Grade

// Get returns the score for a course.
func (g Grades) Get(code CourseCode) (Score, bool) {
	for _, grade := range g {
		if grade.Course == code {
			return grade.Score, true
		}
	}
	return 0, false
}

// UnmarshalJSON decodes a JSON object of course code to score, keeping key order.
func (g *Grades) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("grades: %w", err)
	}
	if tok == nil {
		*g = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("grades: expected object, got %v", tok)
	}

	out := Grades{}
	seen := make(map[CourseCode]struct{})
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("grades: %w", err)
		}
		code := CourseCode(keyTok.(string))
		if _, dup := seen[code]; dup {
			return fmt.Errorf("grades: duplicate course %q", code)
		}
		seen[code] = struct{}{}

		var score *float64
		if err := dec.Decode(&score); err != nil {
			return fmt.Errorf("grades: course %q: %w", code, err)
		}
		if score == nil {
			return fmt.Errorf("grades: course %q has no score", code)
		}
		out = append(out, Grade{Course: code, Score: Score(*score)})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("grades: %w", err)
	}

	*g = out
	return nil
}

// MarshalJSON encodes the grades as a JSON object in stored order.
func (g Grades) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, grade := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(grade.Course))
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(float64(grade.Score))
		if err != nil {
			return nil, fmt.Errorf("grades: course %q: %w", grade.Course, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Student is one entry of the roster.
type Student struct {
	ID        int    `json:"id"`
	FirstName string `json:"prenom"`
	LastName  string `json:"nom"`
	Email     string `json:"email"`
	Grades    Grades `json:"UV"`
}

// FullName joins first and last name.
func (s Student) FullName() string {
	switch {
	case s.FirstName == "":
		return s.LastName
	case s.LastName == "":
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// Roster mirrors the store document: a single top-level array of students.
type Roster struct {
	Students []Student `json:"etudiants"`
}
