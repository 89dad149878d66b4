package roster

import (
	"bytes"
	"testing"

	"github.com/Clark-Hu/gradeboard/internal/grades"
)

func FuzzDecode(f *testing.F) {
	seeds := []string{
		sampleDoc,
		`{"etudiants":[]}`,
		`{"etudiants":[{"id":1,"UV":{"A":1e308,"B":-4}}]}`,
		`{"etudiants":[{"id":1},{"id":1}]}`,
		``,
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		doc, err := Decode(bytes.NewReader([]byte(raw)))
		if err != nil {
			return
		}
		res := grades.Aggregate(doc.Students)
		total := 0
		for _, c := range res.BucketCounts() {
			total += c
		}
		if total != res.Graded || res.Graded+res.Ungraded != len(doc.Students) {
			t.Fatalf("inconsistent aggregation: %+v for %d students", res, len(doc.Students))
		}
	})
}
