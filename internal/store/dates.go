package store

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (DateOnly, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return DateOnly{}, err
	}
	return DateOnly{t}, nil
}

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"`+time.DateOnly+`"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate lets pgx scan date columns into DateOnly. NULL zeroes the value so
// *DateOnly fields end up nil.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

// String is the YYYY-MM-DD form used as a query argument.
func (d DateOnly) String() string { return d.Format(time.DateOnly) }
