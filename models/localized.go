package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
)

// DefaultLocale is the fallback locale when a requested translation is missing.
const DefaultLocale = "en"

// LocalizedText maps a locale code ("en", "ar", ...) to a display string.
// It is persisted as a JSONB column.
type LocalizedText map[string]string

// Resolve returns the string for the requested locale, falling back to the
// default locale and then to the first non-empty value in key order.
func (t LocalizedText) Resolve(locale string) string {
	if v, ok := t[locale]; ok && v != "" {
		return v
	}
	if v, ok := t[DefaultLocale]; ok && v != "" {
		return v
	}
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if t[k] != "" {
			return t[k]
		}
	}
	return ""
}

func (t LocalizedText) Value() (driver.Value, error) {
	if t == nil {
		return "{}", nil
	}
	data, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (t *LocalizedText) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = nil
		return nil
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("unsupported column type %T for localized text", value)
	}
}

func (LocalizedText) GormDataType() string {
	return "jsonb"
}
