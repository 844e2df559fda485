package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSON type for flexible jsonb storage
type JSON map[string]interface{}

// Value implements the driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, &j)
}

// StringList is a jsonb-backed string slice.
type StringList []string

// Value implements the driver.Valuer interface
func (l StringList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *StringList) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// UnmarshalJSON sets the JSON encoding
func (l *StringList) UnmarshalJSON(data []byte) error {
	if l == nil {
		return errors.New("nil pointer")
	}
	var s []string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*l = s
	return nil
}

// Contains reports whether the list holds the given value.
func (l StringList) Contains(v string) bool {
	for _, s := range l {
		if s == v {
			return true
		}
	}
	return false
}
