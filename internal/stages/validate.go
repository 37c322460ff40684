package stages

import "stageplan/internal/model"

// RequiredFieldsFilled reports whether date, start and end time are set.
func RequiredFieldsFilled(ev model.StageEvent) bool {
	return ev.Date != nil && ev.StartTime != nil && ev.EndTime != nil
}

// AllRequiredFieldsFilled gates calendar export.
func AllRequiredFieldsFilled(list []model.StageEvent) bool {
	for _, ev := range list {
		if !RequiredFieldsFilled(ev) {
			return false
		}
	}
	return true
}

// MissingFields lists the required fields ev lacks.
func MissingFields(ev model.StageEvent) []model.Field {
	var missing []model.Field
	if ev.Date == nil {
		missing = append(missing, model.FieldDate)
	}
	if ev.StartTime == nil {
		missing = append(missing, model.FieldStartTime)
	}
	if ev.EndTime == nil {
		missing = append(missing, model.FieldEndTime)
	}
	return missing
}

// IncompleteRows returns the indices of rows that would be dropped from a
// calendar export.
func IncompleteRows(list []model.StageEvent) []int {
	var idx []int
	for i, ev := range list {
		if !RequiredFieldsFilled(ev) {
			idx = append(idx, i)
		}
	}
	return idx
}
