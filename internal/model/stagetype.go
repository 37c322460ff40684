package model

import (
	"fmt"
	"strings"
)

// StageType is the terrain profile of a stage. The zero value is Unset,
// matching the empty option of the stage table.
type StageType uint8

const (
	Unset StageType = iota
	Flat
	Hill
	Mountain
	TimeTrial
)

// StageTypes lists the selectable types in display order.
var StageTypes = []StageType{Hill, Flat, Mountain, TimeTrial}

var wireLabels = map[StageType]string{
	Flat:      "Flachetappe",
	Hill:      "Huegeletappe",
	Mountain:  "Bergetappe",
	TimeTrial: "Zeitfahren",
}

var displayLabels = map[StageType]string{
	Flat:      "Flachetappe",
	Hill:      "Hügeletappe",
	Mountain:  "Bergetappe",
	TimeTrial: "Zeitfahren",
}

var icons = map[StageType]string{
	Flat:      "🛣️",
	Hill:      "🗻",
	Mountain:  "🌋",
	TimeTrial: "⏱️",
}

var englishNames = map[StageType]string{
	Flat:      "flat",
	Hill:      "hill",
	Mountain:  "mountain",
	TimeTrial: "time_trial",
}

// Icon returns the glyph used in calendar titles, or "" for Unset.
func (t StageType) Icon() string { return icons[t] }

// Label returns the German display label.
func (t StageType) Label() string { return displayLabels[t] }

// String returns the wire label used in JSON snapshots.
func (t StageType) String() string { return wireLabels[t] }

func (t StageType) Valid() bool { return t <= TimeTrial }

// ParseStageType accepts the wire label, the display label or the English
// name. "" and "nothing" yield Unset.
func ParseStageType(s string) (StageType, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nothing") {
		return Unset, nil
	}
	for _, t := range StageTypes {
		if s == wireLabels[t] || s == displayLabels[t] || strings.EqualFold(s, englishNames[t]) {
			return t, nil
		}
	}
	return Unset, fmt.Errorf("unknown stage type %q", s)
}

func (t StageType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid stage type %d", t)
	}
	return []byte(t.String()), nil
}

func (t *StageType) UnmarshalText(b []byte) error {
	v, err := ParseStageType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Legend is the icon key prepended to every calendar description.
func Legend() string {
	var b strings.Builder
	for _, t := range []StageType{Mountain, Hill, Flat, TimeTrial} {
		b.WriteString(t.Icon())
		b.WriteString(" = ")
		b.WriteString(t.Label())
		b.WriteByte('\n')
	}
	return b.String()
}
