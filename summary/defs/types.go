package defs

import "time"

// ReadingsPerDay is the number of CGM samples in a complete day, one every five minutes.
const ReadingsPerDay = 288

const DayFormat = "2006-01-02"

// Reading is a single CGM sample. Missing is set when the sensor glucose cell was empty
// and no value has been interpolated for it yet.
type Reading struct {
	Time    time.Time
	Mgdl    float64
	Missing bool
}

// Day is the calendar date the reading belongs to.
func (r Reading) Day() string {
	return r.Time.Format(DayFormat)
}

type InsulinEvent struct {
	Time  time.Time
	Alarm string
}

type Mode int

const (
	Manual Mode = iota
	Auto
)

func (m Mode) String() string {
	return [...]string{"Manual", "Auto"}[m]
}

type Window int

const (
	Overnight Window = iota
	Daytime
	WholeDay
)

func (w Window) String() string {
	return [...]string{"overnight", "daytime", "whole day"}[w]
}

// Windows lists the windows in report column order.
var Windows = []Window{Overnight, Daytime, WholeDay}

type Metric int

const (
	AboveRange180 Metric = iota
	AboveRange250
	InRange70To180
	InRange70To150
	BelowRange70
	BelowRange54
)

// Metrics lists the metrics in report column order.
var Metrics = []Metric{
	AboveRange180,
	AboveRange250,
	InRange70To180,
	InRange70To150,
	BelowRange70,
	BelowRange54,
}

func (m Metric) String() string {
	return [...]string{
		"cgmAb180",
		"cgmAb250",
		"cgm70To180",
		"cgm70To150",
		"cgmBl70",
		"cgmBl54",
	}[m]
}

// Match reports whether a glucose value in mg/dL falls in the metric's range.
func (m Metric) Match(mgdl float64) bool {
	switch m {
	case AboveRange180:
		return mgdl > 180
	case AboveRange250:
		return mgdl > 250
	case InRange70To180:
		return mgdl > 70 && mgdl < 180
	case InRange70To150:
		return mgdl > 70 && mgdl < 150
	case BelowRange70:
		return mgdl < 70
	case BelowRange54:
		return mgdl < 54
	}
	return false
}
