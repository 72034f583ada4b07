// Package types implements special types for the college budget backend.
package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// FinancialYear is an Indian financial year, running from 1 April to
// 31 March of the following calendar year.
type FinancialYear struct {
	start int
}

var ErrFinancialYearFormat = errors.New("financial years must be specified as YYYY-YYYY with consecutive years")

var fyPattern = regexp.MustCompile(`^([0-9]{4})-([0-9]{4})$`)

// NewFinancialYear returns the FinancialYear starting on 1 April of the
// given calendar year.
func NewFinancialYear(startYear int) FinancialYear {
	return FinancialYear{start: startYear}
}

// FinancialYearOf returns the FinancialYear a time instant falls into.
// January through March belong to the year that started the previous April.
func FinancialYearOf(t time.Time) FinancialYear {
	if t.Month() < time.April {
		return FinancialYear{start: t.Year() - 1}
	}
	return FinancialYear{start: t.Year()}
}

// ParseFinancialYear parses a "YYYY-YYYY" string.
func ParseFinancialYear(s string) (FinancialYear, error) {
	match := fyPattern.FindStringSubmatch(strings.TrimSpace(s))
	if match == nil {
		return FinancialYear{}, ErrFinancialYearFormat
	}

	start, err := strconv.Atoi(match[1])
	if err != nil {
		return FinancialYear{}, ErrFinancialYearFormat
	}

	end, err := strconv.Atoi(match[2])
	if err != nil || end != start+1 {
		return FinancialYear{}, ErrFinancialYearFormat
	}

	return FinancialYear{start: start}, nil
}

// String returns the year formatted as YYYY-YYYY.
func (y FinancialYear) String() string {
	return fmt.Sprintf("%04d-%04d", y.start, y.start+1)
}

// Start returns the first instant of the financial year.
func (y FinancialYear) Start() time.Time {
	return time.Date(y.start, time.April, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the first instant after the financial year.
func (y FinancialYear) End() time.Time {
	return time.Date(y.start+1, time.April, 1, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether the time instant is in the financial year.
func (y FinancialYear) Contains(t time.Time) bool {
	return FinancialYearOf(t) == y
}

// Next returns the following financial year.
func (y FinancialYear) Next() FinancialYear {
	return FinancialYear{start: y.start + 1}
}

// Previous returns the preceding financial year.
func (y FinancialYear) Previous() FinancialYear {
	return FinancialYear{start: y.start - 1}
}

// IsZero reports if the financial year is the zero value.
func (y FinancialYear) IsZero() bool {
	return y.start == 0
}

// MarshalJSON implements the json.Marshaler interface.
func (y FinancialYear) MarshalJSON() ([]byte, error) {
	return []byte(`"` + y.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (y *FinancialYear) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "" || value == "null" {
		return nil
	}

	parsed, err := ParseFinancialYear(value)
	if err != nil {
		return err
	}

	*y = parsed
	return nil
}

// UnmarshalParam binds a URI or query parameter, used by gin.
func (y *FinancialYear) UnmarshalParam(p string) error {
	if p == "" {
		*y = FinancialYear{}
		return nil
	}

	parsed, err := ParseFinancialYear(p)
	if err != nil {
		return err
	}

	*y = parsed
	return nil
}

// Scan reads the value from the database.
func (y *FinancialYear) Scan(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case nil:
		*y = FinancialYear{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into FinancialYear", value)
	}

	parsed, err := ParseFinancialYear(s)
	if err != nil {
		return err
	}

	*y = parsed
	return nil
}

// Value returns the value for the SQL driver to write to the database.
func (y FinancialYear) Value() (driver.Value, error) {
	return y.String(), nil
}

// GormDataType defines the data type used by gorm for the type.
func (FinancialYear) GormDataType() string {
	return "varchar(9)"
}
