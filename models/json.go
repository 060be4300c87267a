package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// jsonValue marshals v for storage in a jsonb column.
func jsonValue(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// jsonScan unmarshals a jsonb column into dst. NULL leaves dst untouched.
func jsonScan(src any, dst any) error {
	if src == nil {
		return nil
	}
	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, dst)
	case string:
		return json.Unmarshal([]byte(data), dst)
	default:
		return fmt.Errorf("models: cannot scan %T into %T", src, dst)
	}
}

// StringSlice stores a list of strings (image URLs) as jsonb.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return jsonValue([]string{})
	}
	return jsonValue([]string(s))
}

func (s *StringSlice) Scan(src any) error {
	return jsonScan(src, s)
}

// Address is a structured shipping or billing address stored as jsonb. Its
// contents are opaque to order processing.
type Address struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
}

func (a Address) Value() (driver.Value, error) {
	return jsonValue(a)
}

func (a *Address) Scan(src any) error {
	return jsonScan(src, a)
}

// NullableAddress wraps an optional Address for jsonb storage.
type NullableAddress struct {
	*Address
}

func (a NullableAddress) Value() (driver.Value, error) {
	if a.Address == nil {
		return nil, nil
	}
	return jsonValue(a.Address)
}

func (a *NullableAddress) Scan(src any) error {
	if src == nil {
		a.Address = nil
		return nil
	}
	a.Address = &Address{}
	return jsonScan(src, a.Address)
}
