package student

import (
	"sort"
	"strings"

	"github.com/Rionpgup/student-tracker/internal/model"
)

// Matches reports whether s satisfies filter. The search term matches a
// substring of the id or the name, ignoring case.
func Matches(s model.Student, filter model.Filter) bool {
	term := strings.ToLower(strings.TrimSpace(filter.Search))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.ID), term) ||
		strings.Contains(strings.ToLower(s.Name), term)
}

// SortStudents orders students in place. Ties are always broken by
// ascending id; students without any grade sort last under OrderByGrade
// regardless of direction.
func SortStudents(students []model.Student, ordering model.Ordering) {
	field := ordering.Field
	if field == "" {
		field = model.OrderByName
	}
	sort.SliceStable(students, func(i, j int) bool {
		a, b := students[i], students[j]
		c := compare(a, b, field)
		if c == 0 {
			return a.ID < b.ID
		}
		if ordering.Descending && !missingGradeDecides(a, b, field) {
			return c > 0
		}
		return c < 0
	})
}

func compare(a, b model.Student, field model.OrderField) int {
	switch field {
	case model.OrderByID:
		return strings.Compare(a.ID, b.ID)
	case model.OrderByAddedDate:
		return a.AddedDate.Compare(b.AddedDate)
	case model.OrderByGrade:
		av, aok := a.Grades.Average()
		bv, bok := b.Grades.Average()
		switch {
		case !aok && !bok:
			return 0
		case !aok:
			return 1
		case !bok:
			return -1
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	default:
		return strings.Compare(a.Name, b.Name)
	}
}

func missingGradeDecides(a, b model.Student, field model.OrderField) bool {
	if field != model.OrderByGrade {
		return false
	}
	_, aok := a.Grades.Average()
	_, bok := b.Grades.Average()
	return aok != bok
}
