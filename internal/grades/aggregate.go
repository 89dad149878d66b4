// Package grades computes the per-student average buckets and per-course score
// groups shown on the charts page.
package grades

import "github.com/Clark-Hu/gradeboard/internal/domain"

// Bucket is one of the four fixed average ranges.
type Bucket int

const (
	BelowFive Bucket = iota
	FiveToTen
	TenToFifteen
	FifteenAndAbove

	bucketCount = 4
)

var bucketLabels = [bucketCount]string{"< 5", "5-10", "10-15", "> 15"}

// Label returns the display label of the bucket.
func (b Bucket) Label() string {
	if b < 0 || b >= bucketCount {
		return ""
	}
	return bucketLabels[b]
}

func (b Bucket) String() string { return b.Label() }

// Buckets lists every bucket in label order.
func Buckets() []Bucket {
	return []Bucket{BelowFive, FiveToTen, TenToFifteen, FifteenAndAbove}
}

// Labels lists the bucket labels in order.
func Labels() []string {
	out := make([]string, bucketCount)
	copy(out, bucketLabels[:])
	return out
}

// Classify places an average into its half-open range. Boundary values belong to
// the higher bucket.
func Classify(average float64) Bucket {
	switch {
	case average < 5:
		return BelowFive
	case average < 10:
		return FiveToTen
	case average < 15:
		return TenToFifteen
	default:
		return FifteenAndAbove
	}
}

// Average returns the mean score. ok is false when there are no grades.
func Average(g domain.Grades) (avg float64, ok bool) {
	if len(g) == 0 {
		return 0, false
	}
	var total float64
	for _, grade := range g {
		total += float64(grade.Score)
	}
	return total / float64(len(g)), true
}

// CourseGroup is every score recorded for one course, in student order.
// StudentIDs is parallel to Scores.
type CourseGroup struct {
	Code       domain.CourseCode
	Scores     []domain.Score
	StudentIDs []int
}

// Result is the output of Aggregate.
type Result struct {
	// Buckets is indexed by Bucket.
	Buckets [bucketCount]int
	// Courses appear in the order they were first seen.
	Courses []CourseGroup
	// Graded counts students with at least one grade.
	Graded int
	// Ungraded counts students without grades. They have no average and are
	// left out of every bucket.
	Ungraded int
}

// Count returns the number of students in a bucket.
func (r Result) Count(b Bucket) int {
	if b < 0 || b >= bucketCount {
		return 0
	}
	return r.Buckets[b]
}

// BucketCounts returns the counts in label order.
func (r Result) BucketCounts() []int {
	out := make([]int, bucketCount)
	copy(out, r.Buckets[:])
	return out
}

// Course looks up the group for a course code.
func (r Result) Course(code domain.CourseCode) (CourseGroup, bool) {
	for _, group := range r.Courses {
		if group.Code == code {
			return group, true
		}
	}
	return CourseGroup{}, false
}

// Aggregate buckets every student by average and groups all scores by course.
func Aggregate(students []domain.Student) Result {
	var res Result
	index := make(map[domain.CourseCode]int)

	for _, student := range students {
		avg, ok := Average(student.Grades)
		if !ok {
			res.Ungraded++
			continue
		}
		res.Graded++
		res.Buckets[Classify(avg)]++

		for _, grade := range student.Grades {
			i, seen := index[grade.Course]
			if !seen {
				i = len(res.Courses)
				index[grade.Course] = i
				res.Courses = append(res.Courses, CourseGroup{Code: grade.Course})
			}
			res.Courses[i].Scores = append(res.Courses[i].Scores, grade.Score)
			res.Courses[i].StudentIDs = append(res.Courses[i].StudentIDs, student.ID)
		}
	}
	return res
}
