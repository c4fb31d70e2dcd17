package model

import (
	"fmt"
	"sort"
)

type Subject string

const (
	SubjectOverall Subject = "overall"
	SubjectEnglish Subject = "english"
	SubjectHistory Subject = "history"
	SubjectMath    Subject = "math"
	SubjectScience Subject = "science"
	SubjectArt     Subject = "art"
)

// Column returns the relational column (and spreadsheet header) holding the subject's grade.
func (s Subject) Column() string {
	if s == SubjectOverall {
		return "grade"
	}
	return string(s) + "_grade"
}

// GradeMode selects how many grade fields a student record carries.
type GradeMode string

const (
	GradeModeOverall  GradeMode = "overall"
	GradeModeSubjects GradeMode = "subjects"
)

var subjectOrder = []Subject{SubjectEnglish, SubjectHistory, SubjectMath, SubjectScience, SubjectArt}

func ParseGradeMode(s string) (GradeMode, error) {
	switch GradeMode(s) {
	case "", GradeModeOverall:
		return GradeModeOverall, nil
	case GradeModeSubjects:
		return GradeModeSubjects, nil
	default:
		return "", fmt.Errorf("unknown grading mode %q", s)
	}
}

// Subjects lists the grade fields of the mode in display order.
func (m GradeMode) Subjects() []Subject {
	if m == GradeModeSubjects {
		out := make([]Subject, len(subjectOrder))
		copy(out, subjectOrder)
		return out
	}
	return []Subject{SubjectOverall}
}

func (m GradeMode) Has(s Subject) bool {
	for _, sub := range m.Subjects() {
		if sub == s {
			return true
		}
	}
	return false
}

// AllSubjects returns every known subject, overall first.
func AllSubjects() []Subject {
	return append([]Subject{SubjectOverall}, subjectOrder...)
}

// Grades maps a subject to its grade; a missing key means no grade recorded.
type Grades map[Subject]float64

func (g Grades) Get(s Subject) (float64, bool) {
	v, ok := g[s]
	return v, ok
}

// Ptr returns the grade as a pointer, nil when absent.
func (g Grades) Ptr(s Subject) *float64 {
	v, ok := g[s]
	if !ok {
		return nil
	}
	return &v
}

func (g Grades) Clone() Grades {
	if g == nil {
		return nil
	}
	out := make(Grades, len(g))
	for k, v := range g {
		out[k] = v
	}
	return out
}

// Average is the overall grade if present, otherwise the mean of the subject grades.
func (g Grades) Average() (float64, bool) {
	if v, ok := g[SubjectOverall]; ok {
		return v, true
	}
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, string(k))
	}
	if len(keys) == 0 {
		return 0, false
	}
	sort.Strings(keys)
	var sum float64
	for _, k := range keys {
		sum += g[Subject(k)]
	}
	return sum / float64(len(keys)), true
}
