package student

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Rionpgup/student-tracker/internal/config"
	"github.com/Rionpgup/student-tracker/internal/grade"
	"github.com/Rionpgup/student-tracker/internal/logger"
	"github.com/Rionpgup/student-tracker/internal/model"
	"github.com/Rionpgup/student-tracker/internal/validate"
	apperrors "github.com/Rionpgup/student-tracker/pkg/errors"
)

type Service struct {
	repo Repository
	mode model.GradeMode
	log  zerolog.Logger
	now  func() time.Time
}

func NewService(cfg *config.Config, repo Repository) *Service {
	return &Service{
		repo: repo,
		mode: cfg.Grading.Mode,
		log:  logger.Get(),
		now:  time.Now,
	}
}

// WithClock replaces the clock used for added_date. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Mode() model.GradeMode {
	return s.mode
}

// GradeChange describes one grade field modified by Update.
type GradeChange struct {
	Subject model.Subject
	Old     *float64
	New     float64
	Delta   grade.Delta
}

type UpdateResult struct {
	Student model.Student
	Changes []GradeChange
}

func (s *Service) Create(ctx context.Context, ns model.NewStudent) (model.Student, error) {
	ns.ID = strings.TrimSpace(ns.ID)
	ns.Name = strings.TrimSpace(ns.Name)
	if err := validate.Struct(ns); err != nil {
		return model.Student{}, err
	}

	grades, err := s.parseGrades(ns.Grades)
	if err != nil {
		return model.Student{}, err
	}

	st := model.Student{
		ID:        ns.ID,
		Name:      ns.Name,
		Grades:    grades,
		Email:     strings.TrimSpace(ns.Email),
		AddedDate: s.now().UTC().Truncate(time.Second),
		PhotoRef:  strings.TrimSpace(ns.PhotoRef),
	}

	created, err := s.repo.CreateStudent(ctx, st)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateKey) {
			s.log.Warn().Str("student_id", st.ID).Msg("Student id already exists")
		}
		return model.Student{}, err
	}

	s.log.Info().Str("student_id", created.ID).Msg("Student created")
	return created, nil
}

func (s *Service) Read(ctx context.Context, id string) (model.Student, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Student{}, apperrors.ErrNotFound
	}
	return s.repo.GetStudent(ctx, id)
}

// List returns every student in the requested order. The zero Ordering sorts by name.
func (s *Service) List(ctx context.Context, ordering model.Ordering) ([]model.Student, error) {
	if ordering.Field == "" {
		ordering.Field = model.OrderByName
	}
	if !ordering.Field.Valid() {
		return nil, apperrors.NewValidationError("order_by", string(ordering.Field),
			"must be one of name, id, added_date, grade")
	}
	return s.query(ctx, model.Filter{}, ordering)
}

// Search matches term against id and name, ignoring case. Results are in name order.
func (s *Service) Search(ctx context.Context, term string) ([]model.Student, error) {
	return s.query(ctx, model.Filter{Search: strings.TrimSpace(term)}, model.Ordering{Field: model.OrderByName})
}

func (s *Service) query(ctx context.Context, filter model.Filter, ordering model.Ordering) ([]model.Student, error) {
	students, err := s.repo.QueryStudents(ctx, filter, ordering)
	if err != nil {
		return nil, err
	}
	if students == nil {
		students = []model.Student{}
	}
	return students, nil
}

// Update applies the non-blank fields of uu. Every supplied grade is parsed
// before anything is written.
func (s *Service) Update(ctx context.Context, id string, uu model.UpdateStudent) (UpdateResult, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return UpdateResult{}, apperrors.ErrNotFound
	}
	current, err := s.repo.GetStudent(ctx, id)
	if err != nil {
		return UpdateResult{}, err
	}

	grades, err := s.parseGrades(uu.Grades)
	if err != nil {
		return UpdateResult{}, err
	}

	next := current.Clone()
	if next.Grades == nil {
		next.Grades = model.Grades{}
	}
	if name := strings.TrimSpace(uu.Name); name != "" {
		next.Name = name
	}
	if email := strings.TrimSpace(uu.Email); email != "" {
		next.Email = email
	}

	var changes []GradeChange
	for _, sub := range s.mode.Subjects() {
		v, ok := grades[sub]
		if !ok {
			continue
		}
		old := current.Grades.Ptr(sub)
		next.Grades[sub] = v
		changes = append(changes, GradeChange{
			Subject: sub,
			Old:     old,
			New:     v,
			Delta:   grade.CompareValues(old, v),
		})
	}

	updated, err := s.repo.UpdateStudent(ctx, next)
	if err != nil {
		return UpdateResult{}, err
	}

	for _, c := range changes {
		s.log.Info().
			Str("student_id", id).
			Str("subject", string(c.Subject)).
			Str("change", c.Delta.Kind.String()).
			Msg("Grade updated")
	}
	s.log.Info().Str("student_id", id).Msg("Student updated")
	return UpdateResult{Student: updated, Changes: changes}, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperrors.ErrNotFound
	}
	if err := s.repo.DeleteStudent(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("student_id", id).Msg("Student deleted")
	return nil
}

// parseGrades turns raw grade text into values for the configured mode.
// Blank values are omitted; subjects outside the mode are rejected.
func (s *Service) parseGrades(raw map[model.Subject]string) (model.Grades, error) {
	grades := model.Grades{}
	if len(raw) == 0 {
		return grades, nil
	}

	subjects := make([]model.Subject, 0, len(raw))
	for sub := range raw {
		subjects = append(subjects, sub)
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i] < subjects[j] })

	for _, sub := range subjects {
		value := strings.TrimSpace(raw[sub])
		if value == "" {
			continue
		}
		if !s.mode.Has(sub) {
			return nil, apperrors.NewValidationError(sub.Column(), value,
				fmt.Sprintf("not a grade field in %s grading mode", s.mode))
		}
		v, err := grade.Parse(value)
		if err != nil {
			return nil, apperrors.NewGradeError(sub.Column(), value)
		}
		grades[sub] = v
	}
	return grades, nil
}
