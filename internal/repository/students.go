package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/gradeboard/internal/domain"
)

// StudentsRepository reads and replaces the roster stored in PostgreSQL.
type StudentsRepository struct {
	pool *pgxpool.Pool
}

// studentsWithGrades joins each student to its grades in one statement, so a
// read sees a concurrent ReplaceAll either entirely or not at all.
const studentsWithGrades = `
        SELECT s.id, s.first_name, s.last_name, s.email, g.course_code, g.score
        FROM students s
        LEFT JOIN student_grades g ON g.student_id = s.id
    `

// List returns every student ordered by id, each with grades in import order.
func (r *StudentsRepository) List(ctx context.Context) ([]domain.Student, error) {
	rows, err := r.pool.Query(ctx, studentsWithGrades+` ORDER BY s.id, g.position`)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	students, err := collectStudents(rows)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// GetByID fetches one student with its grades.
func (r *StudentsRepository) GetByID(ctx context.Context, id int) (domain.Student, error) {
	rows, err := r.pool.Query(ctx, studentsWithGrades+` WHERE s.id = $1 ORDER BY g.position`, int64(id))
	if err != nil {
		return domain.Student{}, fmt.Errorf("get student: %w", err)
	}
	students, err := collectStudents(rows)
	if err != nil {
		return domain.Student{}, fmt.Errorf("get student: %w", err)
	}
	if len(students) == 0 {
		return domain.Student{}, ErrNotFound
	}
	return students[0], nil
}

// ReplaceAll swaps the stored roster for students inside one transaction and
// returns the number of students written.
func (r *StudentsRepository) ReplaceAll(ctx context.Context, students []domain.Student) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM students`); err != nil {
		return 0, fmt.Errorf("clear students: %w", err)
	}

	studentRows := make([][]any, 0, len(students))
	var gradeRows [][]any
	for _, s := range students {
		studentRows = append(studentRows, []any{int64(s.ID), s.FirstName, s.LastName, s.Email})
		for pos, grade := range s.Grades {
			gradeRows = append(gradeRows, []any{int64(s.ID), string(grade.Course), float64(grade.Score), int32(pos)})
		}
	}

	written, err := tx.CopyFrom(ctx,
		pgx.Identifier{"students"},
		[]string{"id", "first_name", "last_name", "email"},
		pgx.CopyFromRows(studentRows),
	)
	if err != nil {
		return 0, fmt.Errorf("copy students: %w", err)
	}
	if len(gradeRows) > 0 {
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"student_grades"},
			[]string{"student_id", "course_code", "score", "position"},
			pgx.CopyFromRows(gradeRows),
		); err != nil {
			return 0, fmt.Errorf("copy grades: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return int(written), nil
}

// collectStudents folds joined rows, ordered by student, into students. A student
// without grades comes back as a single row with NULL grade columns.
func collectStudents(rows pgx.Rows) ([]domain.Student, error) {
	defer rows.Close()

	var students []domain.Student
	for rows.Next() {
		var (
			id    int64
			s     domain.Student
			code  *string
			score *float64
		)
		if err := rows.Scan(&id, &s.FirstName, &s.LastName, &s.Email, &code, &score); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		s.ID = int(id)

		if n := len(students); n == 0 || students[n-1].ID != s.ID {
			students = append(students, s)
		}
		if code != nil && score != nil {
			last := &students[len(students)-1]
			last.Grades = append(last.Grades, domain.Grade{
				Course: domain.CourseCode(*code),
				Score:  domain.Score(*score),
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate students: %w", err)
	}
	return students, nil
}
