// Package grade parses grade input and classifies the change between two grades.
package grade

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "github.com/Rionpgup/student-tracker/pkg/errors"
)

type Kind int

const (
	FirstGradeSet Kind = iota
	Upgrade
	Downgrade
	NoChange
)

func (k Kind) String() string {
	switch k {
	case FirstGradeSet:
		return "first_grade_set"
	case Upgrade:
		return "upgrade"
	case Downgrade:
		return "downgrade"
	case NoChange:
		return "no_change"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Delta is the outcome of comparing an old grade with a new one.
// Change and Percent are zero for FirstGradeSet and NoChange.
type Delta struct {
	Kind    Kind
	Old     *float64
	New     float64
	Change  float64
	Percent float64
}

func (d Delta) String() string {
	switch d.Kind {
	case FirstGradeSet:
		return fmt.Sprintf("First grade set: %.1f", d.New)
	case Upgrade:
		return fmt.Sprintf("UPGRADE %+.1f (%+.1f%%)", d.Change, d.Percent)
	case Downgrade:
		return fmt.Sprintf("DOWNGRADE %+.1f (%+.1f%%)", d.Change, d.Percent)
	default:
		return "No change"
	}
}

// Parse reads a grade from user input. Surrounding whitespace is ignored;
// NaN and infinities are rejected.
func Parse(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, apperrors.ErrInvalidGrade
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, apperrors.ErrInvalidGrade
	}
	return v, nil
}

// Compare parses newRaw and classifies it against old. A nil or zero old
// grade yields FirstGradeSet.
func Compare(old *float64, newRaw string) (Delta, error) {
	v, err := Parse(newRaw)
	if err != nil {
		return Delta{}, err
	}
	return CompareValues(old, v), nil
}

func CompareValues(old *float64, v float64) Delta {
	d := Delta{Old: old, New: v}
	if old == nil || *old == 0 {
		d.Kind = FirstGradeSet
		return d
	}
	d.Change = v - *old
	switch {
	case d.Change > 0:
		d.Kind = Upgrade
	case d.Change < 0:
		d.Kind = Downgrade
	default:
		d.Kind = NoChange
		d.Change = 0
		return d
	}
	d.Percent = d.Change / *old * 100
	return d
}
