package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"hotelops/internal/domain/hotels"
	"hotelops/internal/domain/shared/daterange"
)

// Source names the pricing tier that produced a nightly price.
type Source string

const (
	SourceSeasonal Source = "seasonal"
	SourceWeekday  Source = "weekday"
	SourceBase     Source = "base"
)

// NightlyRate is one priced night. Season is the index of the winning seasonal
// range, or -1 when another tier applied.
type NightlyRate struct {
	Date   time.Time
	Price  decimal.Decimal
	Source Source
	Season int
}

// StayQuote is the priced stay. Subtotal is the exact sum of the breakdown in
// the hotel's currency, before taxes and fees.
type StayQuote struct {
	RoomTypeID hotels.RoomTypeID
	Range      daterange.DateRange
	Nights     int
	Breakdown  []NightlyRate
	Subtotal   decimal.Decimal
}

// MaxStayNights bounds a single quote.
const MaxStayNights = 366

// ResolveNightlyPrice prices a single night of the room type.
func ResolveNightlyPrice(rt hotels.RoomType, date time.Time) (decimal.Decimal, error) {
	if err := checkPrices(rt); err != nil {
		return decimal.Zero, err
	}
	return rateFor(rt, daterange.Date(date)).Price, nil
}

// ResolveStayTotal prices every night in [checkIn, checkOut).
func ResolveStayTotal(rt hotels.RoomType, checkIn, checkOut time.Time) (StayQuote, error) {
	stay, err := daterange.New(checkIn, checkOut)
	if err != nil {
		return StayQuote{}, invalid("stay", ErrInvalidStay, "check-out %s is not after check-in %s",
			daterange.Format(checkOut), daterange.Format(checkIn))
	}
	if n := stay.Nights(); n > MaxStayNights {
		return StayQuote{}, invalid("stay", ErrStayTooLong, "%d nights exceeds the limit of %d", n, MaxStayNights)
	}
	if err := checkPrices(rt); err != nil {
		return StayQuote{}, err
	}

	quote := StayQuote{
		RoomTypeID: rt.ID,
		Range:      stay,
		Nights:     stay.Nights(),
		Subtotal:   decimal.Zero,
	}
	quote.Breakdown = make([]NightlyRate, 0, quote.Nights)
	for _, night := range stay.Dates() {
		rate := rateFor(rt, night)
		quote.Breakdown = append(quote.Breakdown, rate)
		quote.Subtotal = quote.Subtotal.Add(rate.Price)
	}
	return quote, nil
}

func rateFor(rt hotels.RoomType, date time.Time) NightlyRate {
	for i := len(rt.SeasonalPricing) - 1; i >= 0; i-- {
		season := rt.SeasonalPricing[i]
		if season.Contains(date) {
			return NightlyRate{Date: date, Price: season.Price, Source: SourceSeasonal, Season: i}
		}
	}
	if price, ok := rt.WeekdayPricing[hotels.WeekdayOf(date)]; ok {
		return NightlyRate{Date: date, Price: price, Source: SourceWeekday, Season: -1}
	}
	return NightlyRate{Date: date, Price: rt.BasePrice, Source: SourceBase, Season: -1}
}

func checkPrices(rt hotels.RoomType) error {
	if !rt.BasePrice.IsPositive() {
		return invalid("basePrice", ErrBasePriceMissing, "room type %q has base price %s", rt.ID, rt.BasePrice.String())
	}
	for day, price := range rt.WeekdayPricing {
		if _, ok := hotels.ParseWeekday(string(day)); !ok {
			return invalid("weekdayPricing", ErrUnknownWeekday, "%q is not a weekday", day)
		}
		if price.IsNegative() {
			return invalid("weekdayPricing", ErrNegativePrice, "%s price %s", day, price.String())
		}
	}
	for i, season := range rt.SeasonalPricing {
		if season.Price.IsNegative() {
			return invalid("seasonalPricing", ErrNegativePrice, "range %d price %s", i, season.Price.String())
		}
	}
	return nil
}
