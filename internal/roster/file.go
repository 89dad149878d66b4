package roster

import (
	"context"
	"os"

	"github.com/Clark-Hu/gradeboard/internal/domain"
)

// FileSource reads the JSON store from disk on every Load.
type FileSource struct {
	Path string
}

// NewFileSource returns a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Load implements Source.
func (s *FileSource) Load(ctx context.Context) (domain.Roster, error) {
	if err := ctx.Err(); err != nil {
		return domain.Roster{}, loadErr(err)
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return domain.Roster{}, loadErr(err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return domain.Roster{}, loadErr(err)
	}
	return doc, nil
}
