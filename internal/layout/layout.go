// Package layout assigns horizontal column slots to same-day schedule events
// so overlapping meetings render side by side instead of stacked. The result
// only drives presentation geometry; it has no scheduling semantics.
package layout

import "sort"

// Event is one meeting within a single weekday, with times expressed as
// minutes since midnight. A zero or negative duration is passed through
// untouched; bad upstream data renders as a zero-height block rather than
// failing the whole day.
type Event struct {
	ID           string
	StartMinutes int
	EndMinutes   int
}

// Slot is the column placement computed for one event: Column is the
// zero-based index and Columns the total width of the event's overlap
// cluster, so every member of a cluster renders at 1/Columns width.
type Slot struct {
	Column  int
	Columns int
}

// LayoutDay computes column placements for the events of one weekday.
//
// Events are sorted by start time (stable, so identical starts keep input
// order), then walked in order. Contiguous events that overlap transitively
// form a cluster; within a cluster each event takes the lowest-numbered
// column that has already ended by its start, or opens a new column. This is
// a greedy single-pass assignment, not a minimum-coloring solver.
func LayoutDay(events []Event) map[string]Slot {
	slots := make(map[string]Slot, len(events))
	if len(events) == 0 {
		return slots
	}

	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartMinutes < sorted[j].StartMinutes
	})

	var (
		cluster    []string
		columnEnds []int
		clusterEnd int
	)

	flush := func() {
		for _, id := range cluster {
			slot := slots[id]
			slot.Columns = len(columnEnds)
			slots[id] = slot
		}
		cluster = cluster[:0]
		columnEnds = columnEnds[:0]
	}

	for _, ev := range sorted {
		if len(cluster) > 0 && ev.StartMinutes >= clusterEnd {
			flush()
		}

		column := -1
		for i, end := range columnEnds {
			if end <= ev.StartMinutes {
				column = i
				break
			}
		}
		if column == -1 {
			column = len(columnEnds)
			columnEnds = append(columnEnds, ev.EndMinutes)
		} else {
			columnEnds[column] = ev.EndMinutes
		}

		slots[ev.ID] = Slot{Column: column}
		cluster = append(cluster, ev.ID)

		if len(cluster) == 1 || ev.EndMinutes > clusterEnd {
			clusterEnd = ev.EndMinutes
		}
	}
	flush()

	return slots
}
