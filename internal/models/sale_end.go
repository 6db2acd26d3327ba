package models

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

var saleEndLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// SaleEnd is the closing time of a flash sale. Documents written by older
// clients may hold a string that is not a date: it is kept in Raw and the
// deadline is treated as invalid.
type SaleEnd struct {
	time.Time
	Raw string
}

// NewSaleEnd wraps t.
func NewSaleEnd(t time.Time) *SaleEnd {
	return &SaleEnd{Time: t}
}

// Valid reports whether the stored value parsed to a real date.
func (e *SaleEnd) Valid() bool {
	return e != nil && e.Raw == "" && !e.Time.IsZero()
}

func parseSaleEnd(s string) (time.Time, bool) {
	for _, layout := range saleEndLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func (e SaleEnd) MarshalJSON() ([]byte, error) {
	if e.Raw != "" {
		return json.Marshal(e.Raw)
	}
	return e.Time.MarshalJSON()
}

func (e *SaleEnd) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("endDate must be a date string: %w", err)
	}
	t, ok := parseSaleEnd(s)
	if !ok {
		return fmt.Errorf("endDate %q is not a valid date", s)
	}
	e.Time, e.Raw = t, ""
	return nil
}

func (e SaleEnd) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if e.Raw != "" {
		return bson.MarshalValue(e.Raw)
	}
	return bson.MarshalValue(e.Time)
}

// UnmarshalBSONValue accepts a BSON date or a date string. Anything else
// decodes as an invalid deadline instead of failing the whole document.
func (e *SaleEnd) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeDateTime:
		*e = SaleEnd{Time: raw.Time().UTC()}
	case bson.TypeString:
		s := raw.StringValue()
		if parsed, ok := parseSaleEnd(s); ok {
			*e = SaleEnd{Time: parsed}
		} else {
			*e = SaleEnd{Raw: s}
		}
	case bson.TypeNull, bson.TypeUndefined:
		*e = SaleEnd{}
	default:
		*e = SaleEnd{Raw: raw.String()}
	}
	return nil
}
