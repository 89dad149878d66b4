package roster

import (
	"context"

	"github.com/Clark-Hu/gradeboard/internal/domain"
)

// StudentLister is the read side of repository.StudentsRepository.
type StudentLister interface {
	List(ctx context.Context) ([]domain.Student, error)
}

// RepositorySource reads the roster from PostgreSQL.
type RepositorySource struct {
	Students StudentLister
}

// Load implements Source.
func (s *RepositorySource) Load(ctx context.Context) (domain.Roster, error) {
	students, err := s.Students.List(ctx)
	if err != nil {
		return domain.Roster{}, loadErr(err)
	}
	return domain.Roster{Students: students}, nil
}
