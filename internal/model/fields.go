package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// FieldMap is the structured fields document of a wheel specification,
// stored as a single JSON column. Reads always yield a non-nil map: a NULL
// column, a double-encoded string, or an undecodable value degrades to an
// empty map with a logged warning instead of failing the row.
type FieldMap map[string]any

// Value implements driver.Valuer. A nil map is stored as an empty object.
func (f FieldMap) Value() (driver.Value, error) {
	if f == nil {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(map[string]any(f))
	if err != nil {
		return nil, fmt.Errorf("failed to encode fields document: %w", err)
	}
	return b, nil
}

// Scan implements sql.Scanner.
func (f *FieldMap) Scan(src any) error {
	*f = FieldMap{}
	if src == nil {
		return nil
	}

	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		log.Printf("Warning: unexpected fields column type %T; returning empty document", src)
		return nil
	}

	decoded := map[string]any{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		// Some rows may hold a JSON string wrapping the real object.
		var inner string
		if err2 := json.Unmarshal(raw, &inner); err2 == nil {
			if err3 := json.Unmarshal([]byte(inner), &decoded); err3 == nil {
				*f = decoded
				return nil
			}
		}
		log.Printf("Warning: undecodable fields document %q; returning empty document", raw)
		return nil
	}
	*f = decoded
	return nil
}

// GormDBDataType picks the column type per dialect.
func (FieldMap) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "JSONB"
	default:
		return "JSON"
	}
}
