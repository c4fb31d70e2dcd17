package model

import "time"

// AddedDateLayout is how added_date is persisted as text.
const AddedDateLayout = time.RFC3339

type Student struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Grades    Grades    `json:"grades,omitempty"`
	Email     string    `json:"email,omitempty"`
	AddedDate time.Time `json:"added_date"`
	PhotoRef  string    `json:"photo_reference,omitempty"`
}

func (s Student) Clone() Student {
	s.Grades = s.Grades.Clone()
	return s
}

// NewStudent is the raw input for creating a student. Grades are kept as text
// so that parsing failures can be reported per field.
type NewStudent struct {
	ID       string             `json:"id" validate:"notblank"`
	Name     string             `json:"name" validate:"notblank"`
	Grades   map[Subject]string `json:"grades"`
	Email    string             `json:"email"`
	PhotoRef string             `json:"photo_reference"`
	// Row is the 1-based spreadsheet row the input was read from; zero otherwise.
	Row int `json:"-"`
}

// UpdateStudent carries replacement values. Blank fields keep the stored value.
type UpdateStudent struct {
	Name   string             `json:"name"`
	Email  string             `json:"email"`
	Grades map[Subject]string `json:"grades"`
}

func (u UpdateStudent) IsEmpty() bool {
	if u.Name != "" || u.Email != "" {
		return false
	}
	for _, v := range u.Grades {
		if v != "" {
			return false
		}
	}
	return true
}

// Ordering selects the List sort key.
type Ordering struct {
	Field      OrderField
	Descending bool
}

type OrderField string

const (
	OrderByName      OrderField = "name"
	OrderByID        OrderField = "id"
	OrderByAddedDate OrderField = "added_date"
	OrderByGrade     OrderField = "grade"
)

func (f OrderField) Valid() bool {
	switch f {
	case OrderByName, OrderByID, OrderByAddedDate, OrderByGrade:
		return true
	}
	return false
}

// Filter narrows a student query. Search matches id or name, case-insensitively.
type Filter struct {
	Search string
}
