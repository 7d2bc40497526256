package booking

import "sort"

// SeatState classifies one seat for display.
type SeatState string

const (
	SeatOccupied  SeatState = "occupied"  // not available in the snapshot
	SeatSelected  SeatState = "selected"  // part of the current selection
	SeatAvailable SeatState = "available" // free to select
)

// GridSeat is one display cell of the seat grid.
type GridSeat struct {
	SeatID     string    `json:"seat_id"`
	SeatNumber uint32    `json:"seat_number"`
	State      SeatState `json:"state"`
}

// GridRow is one display row, seats in the order supplied by the backend.
type GridRow struct {
	Label string     `json:"row"`
	Seats []GridSeat `json:"seats"`
}

// BuildGrid is a pure projection of the seat-map snapshot and the current
// selection into display rows.  Rows are sorted by label ascending; seats
// keep backend order (assumed left-to-right).  Classification is re-derived
// on every call; the grid holds no state of its own.
func BuildGrid(m SeatMap, selected []string) []GridRow {
	sel := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		sel[id] = struct{}{}
	}
	labels := make([]string, 0, len(m))
	for label := range m {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	rows := make([]GridRow, 0, len(labels))
	for _, label := range labels {
		seats := make([]GridSeat, 0, len(m[label]))
		for _, s := range m[label] {
			state := SeatAvailable
			if !s.IsAvailable {
				state = SeatOccupied
			} else if _, ok := sel[s.SeatID]; ok {
				state = SeatSelected
			}
			seats = append(seats, GridSeat{SeatID: s.SeatID, SeatNumber: s.SeatNumber, State: state})
		}
		rows = append(rows, GridRow{Label: label, Seats: seats})
	}
	return rows
}
