package stages

import (
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"stageplan/internal/model"
)

// maxScheduleSteps caps the iterator when rest days swallow occurrences.
const maxScheduleSteps = 10000

// ScheduleDates assigns race days to the rows in order. rule is an RFC 5545
// RRULE such as "FREQ=DAILY" or "FREQ=WEEKLY;BYDAY=SA,SU"; occurrences
// start at start and skip restDays. Start and end times are left alone.
func ScheduleDates(list []model.StageEvent, rule string, start time.Time, restDays []time.Time) ([]model.StageEvent, error) {
	if len(list) == 0 {
		return list, nil
	}
	if start.IsZero() {
		return list, errors.New("schedule: start date is required")
	}

	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return list, fmt.Errorf("schedule: parse rule %q: %w", rule, err)
	}

	loc := start.Location()
	first := midnight(start, loc)
	r.DTStart(first)

	var set rrule.Set
	set.RRule(r)
	for _, d := range restDays {
		set.ExDate(midnight(d, loc))
	}

	out := model.CloneEvents(list)
	next := set.Iterator()
	assigned := 0
	for steps := 0; assigned < len(out) && steps < maxScheduleSteps; steps++ {
		d, ok := next()
		if !ok {
			break
		}
		day := midnight(d, loc)
		out[assigned].Date = &day
		assigned++
	}

	if assigned < len(out) {
		return list, fmt.Errorf("schedule: rule %q yields %d dates for %d stages", rule, assigned, len(out))
	}
	return out, nil
}

// midnight keeps t's calendar date and moves it to 00:00 in loc.
func midnight(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
