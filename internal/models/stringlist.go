package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is an ordered list of strings stored as a JSON text column.
// It is the single serialization boundary for every array-valued column
// (dependencies, tags, files affected, patterns used, tech stack), so a
// value written through one entity reads back identically through any other.
type StringList []string

// Value implements driver.Valuer. A nil list is stored as an empty JSON
// array rather than NULL so readers never see an absent value.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, fmt.Errorf("models: marshal string list: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner. NULL and empty columns decode to an empty
// (non-nil) list; element order and duplicates are preserved.
func (l *StringList) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("models: scan string list: unsupported type %T", src)
	}

	if len(data) == 0 {
		*l = StringList{}
		return nil
	}

	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("models: scan string list: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}

// GormDataType tells GORM to create a text column for StringList fields.
func (StringList) GormDataType() string {
	return "text"
}
