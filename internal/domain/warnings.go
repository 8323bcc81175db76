package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Warnings is a list of human-readable extraction warnings stored as JSONB.
type Warnings []string

// Value implements driver.Valuer.
func (w Warnings) Value() (driver.Value, error) {
	if w == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(w)
}

// Scan implements sql.Scanner.
func (w *Warnings) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*w = nil
		return nil
	case []byte:
		return json.Unmarshal(v, w)
	case string:
		return json.Unmarshal([]byte(v), w)
	default:
		return fmt.Errorf("unsupported type for Warnings: %T", src)
	}
}
