// Package stages maintains the ordered list of stage rows: field edits,
// appending and deleting rows with stage renumbering, required-field
// checks and date scheduling.
//
// All functions return a new slice and never modify their input.
package stages

import (
	"fmt"
	"strconv"
	"time"

	"stageplan/internal/model"
)

// Confirmer is asked whether to continue despite a warning. A nil
// Confirmer declines.
type Confirmer func(w *model.ValidationWarning) bool

// AlwaysConfirm accepts every warning.
func AlwaysConfirm(*model.ValidationWarning) bool { return true }

// UpdateField returns a copy of list with field of row index set to value.
//
// Accepted value types: string for stage, from, to and kilometers;
// time.Time, *time.Time or nil for date, startTime and endTime; StageType
// or its label for type; bool for mountainFinish.
func UpdateField(list []model.StageEvent, index int, field model.Field, value any) ([]model.StageEvent, error) {
	if index < 0 || index >= len(list) {
		return list, model.IndexError(index, len(list))
	}

	out := model.CloneEvents(list)
	if err := setField(&out[index], field, value); err != nil {
		return list, err
	}
	return out, nil
}

func setField(ev *model.StageEvent, field model.Field, value any) error {
	switch field {
	case model.FieldStage, model.FieldFrom, model.FieldTo, model.FieldKilometers:
		s, ok := value.(string)
		if !ok {
			return valueError(field, value)
		}
		switch field {
		case model.FieldStage:
			ev.Stage = s
		case model.FieldFrom:
			ev.From = s
		case model.FieldTo:
			ev.To = s
		default:
			ev.Kilometers = s
		}

	case model.FieldDate, model.FieldStartTime, model.FieldEndTime:
		t, ok := timeValue(value)
		if !ok {
			return valueError(field, value)
		}
		switch field {
		case model.FieldDate:
			ev.Date = t
		case model.FieldStartTime:
			ev.StartTime = t
		default:
			ev.EndTime = t
		}

	case model.FieldType:
		switch v := value.(type) {
		case model.StageType:
			if !v.Valid() {
				return valueError(field, value)
			}
			ev.Type = v
		case string:
			st, err := model.ParseStageType(v)
			if err != nil {
				return fmt.Errorf("%w: %v", model.ErrFieldValue, err)
			}
			ev.Type = st
		default:
			return valueError(field, value)
		}

	case model.FieldMountainFinish:
		b, ok := value.(bool)
		if !ok {
			return valueError(field, value)
		}
		ev.MountainFinish = b

	default:
		return fmt.Errorf("%w: unknown field %q", model.ErrFieldValue, field)
	}
	return nil
}

func timeValue(value any) (*time.Time, bool) {
	switch v := value.(type) {
	case nil:
		return nil, true
	case time.Time:
		if v.IsZero() {
			return nil, true
		}
		return &v, true
	case *time.Time:
		if v == nil {
			return nil, true
		}
		c := *v
		return &c, true
	default:
		return nil, false
	}
}

func valueError(field model.Field, value any) error {
	return fmt.Errorf("%w: %T for %s", model.ErrFieldValue, value, field)
}

// AppendRow adds a row after the last one. If the last row misses date or
// times, confirm decides whether to go on; a refusal returns the list
// unchanged and false.
//
// The new row continues the previous one: the date moves one calendar day
// forward, start and end time are copied, and the stage label is the last
// numeric label plus one.
func AppendRow(list []model.StageEvent, confirm Confirmer) ([]model.StageEvent, bool, error) {
	if len(list) == 0 {
		return []model.StageEvent{model.BlankStage()}, true, nil
	}

	lastIdx := len(list) - 1
	last := list[lastIdx]
	if !RequiredFieldsFilled(last) {
		w := &model.ValidationWarning{Index: lastIdx, Missing: MissingFields(last)}
		if confirm == nil || !confirm(w) {
			return list, false, nil
		}
	}

	next := model.StageEvent{
		Stage: strconv.Itoa(lastStageNumber(list) + 1),
		Type:  model.Flat,
	}
	if last.Date != nil {
		d := last.Date.AddDate(0, 0, 1)
		next.Date = &d
	}
	if last.StartTime != nil {
		t := *last.StartTime
		next.StartTime = &t
	}
	if last.EndTime != nil {
		t := *last.EndTime
		next.EndTime = &t
	}

	out := append(model.CloneEvents(list), next)
	return out, true, nil
}

// lastStageNumber scans from the end for the first numeric label.
func lastStageNumber(list []model.StageEvent) int {
	for i := len(list) - 1; i >= 0; i-- {
		if n, ok := ParseStageNumber(list[i].Stage); ok {
			return n
		}
	}
	return 0
}

// DeleteRow removes row index and renumbers the numeric stage labels. The
// result may be empty; the caller reinserts the blank row.
func DeleteRow(list []model.StageEvent, index int) ([]model.StageEvent, error) {
	if index < 0 || index >= len(list) {
		return list, model.IndexError(index, len(list))
	}

	out := make([]model.StageEvent, 0, len(list)-1)
	for i, ev := range list {
		if i == index {
			continue
		}
		out = append(out, ev.Clone())
	}
	renumber(out)
	return out, nil
}

// Renumber relabels numeric stages 1, 2, 3, ... in order. Non-numeric
// labels such as "Prolog" keep their value and do not take a number.
func Renumber(list []model.StageEvent) []model.StageEvent {
	out := model.CloneEvents(list)
	renumber(out)
	return out
}

func renumber(list []model.StageEvent) {
	n := 0
	for i := range list {
		if _, ok := ParseStageNumber(list[i].Stage); ok {
			n++
			list[i].Stage = strconv.Itoa(n)
		}
	}
}

// ParseStageNumber reads a leading decimal integer the lenient way a web
// form does: leading blanks and a sign are allowed and trailing text is
// ignored, so "3a" is 3 while "a3" is not a number.
func ParseStageNumber(s string) (int, bool) {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	start := i
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[start:i])
	if err != nil {
		return 0, false
	}
	return n, true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}
