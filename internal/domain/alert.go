package domain

import "time"

// Alert is an open operator alert. Description doubles as the dedup key:
// at most one open alert per distinct description. Resolving an alert
// deletes the row, there is no resolved flag.
type Alert struct {
	ID          int    `db:"id" json:"id"`
	Time        string `db:"time" json:"time"`
	Description string `db:"description" json:"description"`
}

// AlertTimeFormat matches the wall-clock local format the dashboard renders.
const AlertTimeFormat = "3:04:05 PM"

func NewAlert(description, at string) *Alert {
	if at == "" {
		at = time.Now().Format(AlertTimeFormat)
	}
	return &Alert{Time: at, Description: description}
}

// Direction tells which side of the calibrated limit is anomalous.
type Direction int

const (
	AboveIsBad Direction = iota
	BelowIsBad
)

// ThresholdRule is one entry of the static per-process rule table,
// evaluated against the telemetry field it names.
type ThresholdRule struct {
	Field     int
	Direction Direction
	Limit     float64
	Message   string
}

// Triggered reports whether the reading is on the bad side of the limit.
func (r ThresholdRule) Triggered(reading float64) bool {
	if r.Direction == AboveIsBad {
		return reading > r.Limit
	}
	return reading < r.Limit
}

// DefaultRules mirrors the storage-room calibration: cold storage
// temperature/humidity on fields 1-2, flammable section on 3-4, gas
// sensors on 5-6.
func DefaultRules() []ThresholdRule {
	return []ThresholdRule{
		{Field: 1, Direction: AboveIsBad, Limit: 8, Message: "Alert at Cold storage temperature"},
		{Field: 2, Direction: BelowIsBad, Limit: 50, Message: "Alert at Cold storage humidity"},
		{Field: 3, Direction: AboveIsBad, Limit: 45, Message: "alert at flammable section temperture"},
		{Field: 4, Direction: BelowIsBad, Limit: 50, Message: "alert at flammable section humidity"},
		{Field: 5, Direction: AboveIsBad, Limit: 10, Message: "Alert at gas section"},
		{Field: 6, Direction: AboveIsBad, Limit: 10, Message: "Alert at gas section"},
	}
}
