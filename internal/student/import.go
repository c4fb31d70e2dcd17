package student

import (
	"context"
	"errors"
	"strings"

	"github.com/Rionpgup/student-tracker/internal/model"
	apperrors "github.com/Rionpgup/student-tracker/pkg/errors"
)

type ImportOutcome string

const (
	ImportCreated   ImportOutcome = "created"
	ImportDuplicate ImportOutcome = "duplicate"
	ImportInvalid   ImportOutcome = "invalid"
)

// ImportResult is the outcome of one input row. Row is the sheet row when
// the input carries one, else the 1-based position in the batch.
type ImportResult struct {
	Row     int
	ID      string
	Outcome ImportOutcome
	Err     error
}

type ImportReport struct {
	Results []ImportResult
}

func (r ImportReport) Count(outcome ImportOutcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}

// Import creates each row in order. Duplicate and invalid rows are recorded
// and skipped; any other failure stops the batch and is returned along with
// the results gathered so far.
func (s *Service) Import(ctx context.Context, rows []model.NewStudent) (ImportReport, error) {
	var report ImportReport
	for i, row := range rows {
		res := ImportResult{Row: row.Row, ID: strings.TrimSpace(row.ID)}
		if res.Row == 0 {
			res.Row = i + 1
		}
		_, err := s.Create(ctx, row)
		switch {
		case err == nil:
			res.Outcome = ImportCreated
		case errors.Is(err, apperrors.ErrDuplicateKey):
			res.Outcome = ImportDuplicate
			res.Err = err
		case apperrors.IsValidation(err):
			res.Outcome = ImportInvalid
			res.Err = err
		default:
			return report, err
		}
		report.Results = append(report.Results, res)
	}

	s.log.Info().
		Int("created", report.Count(ImportCreated)).
		Int("duplicates", report.Count(ImportDuplicate)).
		Int("invalid", report.Count(ImportInvalid)).
		Msg("Import finished")
	return report, nil
}
