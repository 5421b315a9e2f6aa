package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// TagList is a list of free-form tags stored as a JSON array in a TEXT column,
// which keeps the column portable between SQLite and Postgres.
type TagList []string

func (t TagList) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *TagList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*t = TagList{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("taglist: unsupported source type %T", src)
	}
	if len(raw) == 0 {
		*t = TagList{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("taglist: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*t = out
	return nil
}
