package model

import "time"

// DateRange is an inclusive [Start, End] window. A nil bound is open.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

func (r DateRange) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

func (r DateRange) Valid() bool {
	return r.Start == nil || r.End == nil || !r.End.Before(*r.Start)
}
