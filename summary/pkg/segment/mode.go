package segment

import (
	"errors"
	"time"

	"ichor/summary/defs"

	"github.com/samber/lo"
)

var ErrNoAutoModeEvent = errors.New("no auto mode activation event")

// SwitchTime returns the time of the first event labelled alarm. Events must be in
// chronological order.
func SwitchTime(events []defs.InsulinEvent, alarm string) (time.Time, error) {
	event, ok := lo.Find(events, func(in defs.InsulinEvent) bool {
		return in.Alarm == alarm
	})
	if !ok {
		return time.Time{}, ErrNoAutoModeEvent
	}
	return event.Time, nil
}

// ByMode splits readings at the mode switch. Readings at or before switchTime were taken
// in manual mode, readings strictly after it in auto mode.
func ByMode(trs []defs.Reading, switchTime time.Time) (auto, manual []defs.Reading) {
	auto = lo.Filter(trs, func(tr defs.Reading, _ int) bool {
		return tr.Time.After(switchTime)
	})
	manual = lo.Filter(trs, func(tr defs.Reading, _ int) bool {
		return !tr.Time.After(switchTime)
	})
	return auto, manual
}
