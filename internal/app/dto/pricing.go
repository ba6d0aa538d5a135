package dto

import (
	"github.com/shopspring/decimal"

	"hotelops/internal/domain/pricing"
	"hotelops/internal/domain/shared/daterange"
)

type NightlyRate struct {
	Date   string          `json:"date"`
	Price  decimal.Decimal `json:"price"`
	Source string          `json:"source"`
	Season *int            `json:"season,omitempty"`
}

type StayQuote struct {
	HotelID    string          `json:"hotel_id"`
	RoomTypeID string          `json:"room_type_id"`
	Currency   string          `json:"currency,omitempty"`
	CheckIn    string          `json:"check_in"`
	CheckOut   string          `json:"check_out"`
	Nights     int             `json:"nights"`
	Breakdown  []NightlyRate   `json:"breakdown"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

type PricingReport struct {
	RoomTypeID string   `json:"room_type_id"`
	Name       string   `json:"name,omitempty"`
	Error      string   `json:"error,omitempty"`
	Warnings   []string `json:"warnings"`
}

type PricingWarnings struct {
	HotelID string          `json:"hotel_id"`
	Reports []PricingReport `json:"reports"`
}

func MapStayQuote(hotelID, currency string, q pricing.StayQuote) StayQuote {
	lines := make([]NightlyRate, 0, len(q.Breakdown))
	for _, n := range q.Breakdown {
		line := NightlyRate{
			Date:   daterange.Format(n.Date),
			Price:  n.Price,
			Source: string(n.Source),
		}
		if n.Source == pricing.SourceSeasonal {
			season := n.Season
			line.Season = &season
		}
		lines = append(lines, line)
	}
	return StayQuote{
		HotelID:    hotelID,
		RoomTypeID: string(q.RoomTypeID),
		Currency:   currency,
		CheckIn:    daterange.Format(q.Range.CheckIn),
		CheckOut:   daterange.Format(q.Range.CheckOut),
		Nights:     q.Nights,
		Breakdown:  lines,
		Subtotal:   q.Subtotal,
	}
}

func MapPricingReport(name string, r pricing.Report) PricingReport {
	out := PricingReport{
		RoomTypeID: string(r.RoomTypeID),
		Name:       name,
		Warnings:   r.Warnings,
	}
	if out.Warnings == nil {
		out.Warnings = []string{}
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return out
}
