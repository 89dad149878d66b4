package grades

import "github.com/Clark-Hu/gradeboard/internal/domain"

// ChartDataVersion identifies the layout of ChartData.
const ChartDataVersion = "1"

// ChartData is the rendering-agnostic form of a Result. Any chart layer
// (Chart.js, SVG, terminal) reads it without knowing about Result.
type ChartData struct {
	Version  string        `json:"version"`
	Buckets  []BucketCount `json:"buckets"`
	Courses  []CourseChart `json:"courses"`
	Ungraded int           `json:"ungraded"`
}

// BucketCount is one slice of the averages chart.
type BucketCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// CourseChart is the data array of one per-course chart.
type CourseChart struct {
	Code       domain.CourseCode `json:"code"`
	Scores     []domain.Score    `json:"scores"`
	StudentIDs []int             `json:"studentIds"`
}

// NewChartData converts an aggregation result into the chart schema.
func NewChartData(res Result) ChartData {
	data := ChartData{
		Version:  ChartDataVersion,
		Buckets:  make([]BucketCount, 0, bucketCount),
		Courses:  make([]CourseChart, 0, len(res.Courses)),
		Ungraded: res.Ungraded,
	}
	for _, b := range Buckets() {
		data.Buckets = append(data.Buckets, BucketCount{Label: b.Label(), Count: res.Count(b)})
	}
	for _, group := range res.Courses {
		data.Courses = append(data.Courses, CourseChart{
			Code:       group.Code,
			Scores:     append([]domain.Score(nil), group.Scores...),
			StudentIDs: append([]int(nil), group.StudentIDs...),
		})
	}
	return data
}

// Course returns the chart for a course code.
func (d ChartData) Course(code domain.CourseCode) (CourseChart, bool) {
	for _, c := range d.Courses {
		if c.Code == code {
			return c, true
		}
	}
	return CourseChart{}, false
}

// TotalCount sums all bucket counts.
func (d ChartData) TotalCount() int {
	total := 0
	for _, b := range d.Buckets {
		total += b.Count
	}
	return total
}
