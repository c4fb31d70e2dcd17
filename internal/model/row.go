package model

import (
	"fmt"
	"time"
)

// StudentRow is the flat persisted shape of a Student: one nullable column
// per grade field. It is shared by the relational and JSON file backends.
type StudentRow struct {
	ID           string   `json:"id" db:"id"`
	Name         string   `json:"name" db:"name"`
	Grade        *float64 `json:"grade,omitempty" db:"grade"`
	EnglishGrade *float64 `json:"english_grade,omitempty" db:"english_grade"`
	HistoryGrade *float64 `json:"history_grade,omitempty" db:"history_grade"`
	MathGrade    *float64 `json:"math_grade,omitempty" db:"math_grade"`
	ScienceGrade *float64 `json:"science_grade,omitempty" db:"science_grade"`
	ArtGrade     *float64 `json:"art_grade,omitempty" db:"art_grade"`
	Email        *string  `json:"email,omitempty" db:"email"`
	AddedDate    string   `json:"added_date" db:"added_date"`
	PhotoRef     *string  `json:"photo_reference,omitempty" db:"photo_reference"`
}

func (r *StudentRow) gradeField(s Subject) **float64 {
	switch s {
	case SubjectOverall:
		return &r.Grade
	case SubjectEnglish:
		return &r.EnglishGrade
	case SubjectHistory:
		return &r.HistoryGrade
	case SubjectMath:
		return &r.MathGrade
	case SubjectScience:
		return &r.ScienceGrade
	case SubjectArt:
		return &r.ArtGrade
	}
	return nil
}

func NewStudentRow(s Student) StudentRow {
	row := StudentRow{
		ID:        s.ID,
		Name:      s.Name,
		Email:     optionalString(s.Email),
		AddedDate: s.AddedDate.UTC().Format(AddedDateLayout),
		PhotoRef:  optionalString(s.PhotoRef),
	}
	for _, sub := range AllSubjects() {
		if f := row.gradeField(sub); f != nil {
			*f = s.Grades.Ptr(sub)
		}
	}
	return row
}

func (r StudentRow) Student() (Student, error) {
	added, err := time.Parse(AddedDateLayout, r.AddedDate)
	if err != nil {
		return Student{}, fmt.Errorf("student %s: bad added_date %q: %w", r.ID, r.AddedDate, err)
	}
	s := Student{
		ID:        r.ID,
		Name:      r.Name,
		Grades:    Grades{},
		AddedDate: added.UTC(),
	}
	if r.Email != nil {
		s.Email = *r.Email
	}
	if r.PhotoRef != nil {
		s.PhotoRef = *r.PhotoRef
	}
	for _, sub := range AllSubjects() {
		if v := *r.gradeField(sub); v != nil {
			s.Grades[sub] = *v
		}
	}
	return s, nil
}

// CredentialRow is the persisted shape of a Credential.
type CredentialRow struct {
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"password_hash" db:"password_hash"`
	Role         string `json:"role" db:"role"`
	CreatedAt    string `json:"created_at" db:"created_at"`
}

func NewCredentialRow(c Credential) CredentialRow {
	return CredentialRow{
		Username:     c.Username,
		PasswordHash: string(c.PasswordHash),
		Role:         string(c.Role),
		CreatedAt:    c.CreatedAt.UTC().Format(AddedDateLayout),
	}
}

func (r CredentialRow) Credential() (Credential, error) {
	created, err := time.Parse(AddedDateLayout, r.CreatedAt)
	if err != nil {
		return Credential{}, fmt.Errorf("user %s: bad created_at %q: %w", r.Username, r.CreatedAt, err)
	}
	role := Role(r.Role)
	if !role.Valid() {
		return Credential{}, fmt.Errorf("user %s: unknown role %q", r.Username, r.Role)
	}
	return Credential{
		Username:     r.Username,
		PasswordHash: []byte(r.PasswordHash),
		Role:         role,
		CreatedAt:    created.UTC(),
	}, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
