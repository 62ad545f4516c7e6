package timeseries

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/mr1hm/go-farm-analytics/internal/spectral"
)

// DateLayout is the wire format of a point's date.
const DateLayout = "2006-01-02"

type pointJSON struct {
	Date   string              `json:"date"`
	Values map[string]*float64 `json:"values"`
}

// MarshalJSON writes the date as YYYY-MM-DD and values that have no data
// as null.
func (p Point) MarshalJSON() ([]byte, error) {
	out := pointJSON{
		Date:   p.Date.Format(DateLayout),
		Values: make(map[string]*float64, len(p.Values)),
	}
	for n, v := range p.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out.Values[string(n)] = nil
			continue
		}
		out.Values[string(n)] = &v
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a point, resolving index names case-insensitively
// and mapping null to NaN.
func (p *Point) UnmarshalJSON(data []byte) error {
	var in pointJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	date, err := ParseDate(in.Date)
	if err != nil {
		return err
	}
	values := make(map[spectral.Name]float64, len(in.Values))
	for raw, v := range in.Values {
		name, err := spectral.ParseName(raw)
		if err != nil {
			return err
		}
		if v == nil {
			values[name] = math.NaN()
		} else {
			values[name] = *v
		}
	}

	p.Date = date
	p.Values = values
	return nil
}

// ParseDate accepts a plain date or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}
