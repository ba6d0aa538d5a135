package pricing

import (
	"fmt"

	"hotelops/internal/domain/hotels"
	"hotelops/internal/domain/shared/daterange"
)

// Report is the outcome of checking a room type's pricing. Err is set when the
// room type cannot be priced at all; Warnings list authoring problems that still
// price deterministically.
type Report struct {
	RoomTypeID hotels.RoomTypeID
	Err        error
	Warnings   []string
}

func (r Report) OK() bool {
	return r.Err == nil && len(r.Warnings) == 0
}

// ValidateRoomType checks pricing invariants and flags seasonal ranges that are
// reversed or overlap. Overlaps resolve to the later range.
func ValidateRoomType(rt hotels.RoomType) Report {
	report := Report{RoomTypeID: rt.ID, Err: checkPrices(rt)}
	for i, season := range rt.SeasonalPricing {
		if season.EndDate.Before(season.StartDate) {
			report.Warnings = append(report.Warnings, fmt.Sprintf(
				"seasonal range %d (%s..%s) ends before it starts and never applies",
				i, daterange.Format(season.StartDate), daterange.Format(season.EndDate)))
		}
	}
	for i := 0; i < len(rt.SeasonalPricing); i++ {
		a := rt.SeasonalPricing[i]
		if a.EndDate.Before(a.StartDate) {
			continue
		}
		for j := i + 1; j < len(rt.SeasonalPricing); j++ {
			b := rt.SeasonalPricing[j]
			if b.EndDate.Before(b.StartDate) || !a.Overlaps(b) {
				continue
			}
			report.Warnings = append(report.Warnings, fmt.Sprintf(
				"seasonal ranges %d and %d overlap; range %d wins on shared dates", i, j, j))
		}
	}
	return report
}
