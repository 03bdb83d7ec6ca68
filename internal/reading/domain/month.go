package reading

import "time"

// Month is the persisted representation of a billing period, "YYYY-MM".
type Month string

// ParseMonth validates and normalizes a month string.
func ParseMonth(value string) (Month, error) {
	parsed, err := time.Parse("2006-01", value)
	if err != nil {
		return "", ErrMonthFormatInvalid
	}
	return Month(parsed.Format("2006-01")), nil
}

// Start returns the first instant of the month in UTC.
func (m Month) Start() time.Time {
	parsed, err := time.Parse("2006-01", string(m))
	if err != nil {
		return time.Time{}
	}
	return parsed.UTC()
}

// Next returns the following month.
func (m Month) Next() Month {
	return Month(m.Start().AddDate(0, 1, 0).Format("2006-01"))
}

// String returns the raw string for storage.
func (m Month) String() string { return string(m) }
