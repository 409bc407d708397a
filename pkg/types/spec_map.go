package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// SpecMap stores open-ended technical specifications as an explicit
// string-keyed mapping persisted as JSONB.
type SpecMap map[string]string

// Value implements driver.Valuer.
func (m SpecMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("spec map: marshal: %w", err)
	}
	return string(encoded), nil
}

// Scan implements sql.Scanner.
func (m *SpecMap) Scan(src any) error {
	if src == nil {
		*m = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("spec map: unsupported source type %T", src)
	}
	if len(raw) == 0 {
		*m = nil
		return nil
	}
	decoded := map[string]string{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("spec map: unmarshal: %w", err)
	}
	*m = decoded
	return nil
}
