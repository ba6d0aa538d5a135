package analytics

import (
	"time"

	"hotelops/internal/domain/hotels"
	"hotelops/internal/domain/reservations"
	"hotelops/internal/domain/shared/daterange"
)

// RoomStatusTally partitions rooms by their status field. Unknown counts rooms
// whose stored status is none of the four known values.
type RoomStatusTally struct {
	Vacant      int `json:"vacant"`
	Occupied    int `json:"occupied"`
	Dirty       int `json:"dirty"`
	Maintenance int `json:"maintenance"`
	Unknown     int `json:"unknown,omitempty"`
}

func (t RoomStatusTally) Total() int {
	return t.Vacant + t.Occupied + t.Dirty + t.Maintenance + t.Unknown
}

func TallyRoomStatus(rooms []hotels.Room) RoomStatusTally {
	var t RoomStatusTally
	for _, room := range rooms {
		switch room.Status {
		case hotels.RoomVacant:
			t.Vacant++
		case hotels.RoomOccupied:
			t.Occupied++
		case hotels.RoomDirty:
			t.Dirty++
		case hotels.RoomMaintenance:
			t.Maintenance++
		default:
			t.Unknown++
		}
	}
	return t
}

// CheckInsDue counts pending or confirmed reservations arriving on day.
func CheckInsDue(items []reservations.Reservation, day time.Time) int {
	day = daterange.Date(day)
	n := 0
	for _, r := range items {
		if r.Status != reservations.StatusPending && r.Status != reservations.StatusConfirmed {
			continue
		}
		if daterange.Date(r.CheckInDate).Equal(day) {
			n++
		}
	}
	return n
}

// CheckOutsDue counts checked-in reservations leaving on day.
func CheckOutsDue(items []reservations.Reservation, day time.Time) int {
	day = daterange.Date(day)
	n := 0
	for _, r := range items {
		if r.Status == reservations.StatusCheckedIn && daterange.Date(r.CheckOutDate).Equal(day) {
			n++
		}
	}
	return n
}
