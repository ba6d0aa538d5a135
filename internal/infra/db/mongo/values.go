package mongo

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"

	"hotelops/internal/domain/shared/daterange"
)

// amount decodes prices stored as double, int, string or Decimal128.
type amount struct {
	decimal.Decimal
}

func (a *amount) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Null, bsontype.Undefined:
		a.Decimal = decimal.Zero
	case bsontype.Double:
		a.Decimal = decimal.NewFromFloat(rv.Double())
	case bsontype.Int32:
		a.Decimal = decimal.NewFromInt32(rv.Int32())
	case bsontype.Int64:
		a.Decimal = decimal.NewFromInt(rv.Int64())
	case bsontype.Decimal128:
		d, err := decimal.NewFromString(rv.Decimal128().String())
		if err != nil {
			return fmt.Errorf("amount: %w", err)
		}
		a.Decimal = d
	case bsontype.String:
		d, err := decimal.NewFromString(strings.TrimSpace(rv.StringValue()))
		if err != nil {
			return fmt.Errorf("amount: %w", err)
		}
		a.Decimal = d
	default:
		return fmt.Errorf("amount: unsupported bson type %s", t)
	}
	return nil
}

// calendarDate decodes YYYY-MM-DD strings or BSON datetimes into a calendar date.
type calendarDate struct {
	time.Time
}

func (d *calendarDate) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Null, bsontype.Undefined:
		d.Time = time.Time{}
	case bsontype.String:
		parsed, err := daterange.Parse(rv.StringValue())
		if err != nil {
			return err
		}
		d.Time = parsed
	case bsontype.DateTime:
		d.Time = daterange.Date(rv.Time().UTC())
	default:
		return fmt.Errorf("date: unsupported bson type %s", t)
	}
	return nil
}

// instant decodes BSON datetimes or RFC3339 strings.
type instant struct {
	time.Time
}

func (i *instant) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Null, bsontype.Undefined:
		i.Time = time.Time{}
	case bsontype.DateTime:
		i.Time = rv.Time().UTC()
	case bsontype.String:
		parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(rv.StringValue()))
		if err != nil {
			return fmt.Errorf("instant: %w", err)
		}
		i.Time = parsed
	default:
		return fmt.Errorf("instant: unsupported bson type %s", t)
	}
	return nil
}
