package domain

// SlotStatus is the three-valued availability of one slot.
type SlotStatus string

const (
	SlotFree   SlotStatus = "free"
	SlotBooked SlotStatus = "booked"
	SlotClosed SlotStatus = "closed"
)

// Slot is one bookable time point on a provider's grid for a given date.
// Slots are derived on demand and never persisted.
type Slot struct {
	Time   TimeOfDay  `json:"time"`
	Status SlotStatus `json:"status"`
}

// ComputeSlots derives the availability view for one provider and date. It
// walks the grid from cfg.Start to cfg.End inclusive, stepping
// cfg.IntervalMinutes, and emits one slot per grid point in ascending order.
//
// A time present in booked wins over closed. The two sets are disjoint under
// normal operation (booking a closed slot is rejected), but a provider may
// close a slot after it was booked; the standing booking is what the caller
// needs to see then.
//
// The closing instant itself is a valid slot, and an interval that does not
// divide the window evenly simply stops at the last grid point at or before
// cfg.End. Callers must pass a config that satisfies Validate; the engine
// itself is pure and safe for concurrent use.
func ComputeSlots(cfg ScheduleConfig, closed, booked map[TimeOfDay]struct{}) []Slot {
	slots := make([]Slot, 0, (cfg.End.Minutes()-cfg.Start.Minutes())/cfg.IntervalMinutes+1)
	for t := cfg.Start; !t.After(cfg.End); t = t.Add(cfg.IntervalMinutes) {
		status := SlotFree
		if _, ok := booked[t]; ok {
			status = SlotBooked
		} else if _, ok := closed[t]; ok {
			status = SlotClosed
		}
		slots = append(slots, Slot{Time: t, Status: status})
	}
	return slots
}

// TimeSet builds a membership set from a list of times.
func TimeSet(times []TimeOfDay) map[TimeOfDay]struct{} {
	set := make(map[TimeOfDay]struct{}, len(times))
	for _, t := range times {
		set[t] = struct{}{}
	}
	return set
}
