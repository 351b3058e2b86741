package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is a set of entity IDs stored as a JSON array in a single text
// column. This mirrors the document-style reference arrays the store exposes
// set semantics over: Add is a no-op for present values, Remove for absent.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case string:
		if v == "" {
			*l = StringList{}
			return nil
		}
		return json.Unmarshal([]byte(v), l)
	case []byte:
		if len(v) == 0 {
			*l = StringList{}
			return nil
		}
		return json.Unmarshal(v, l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}

// Contains reports whether id is present in the list.
func (l StringList) Contains(id string) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Add returns the list with id appended, unless it is already present.
func (l StringList) Add(id string) StringList {
	if l.Contains(id) {
		return l
	}
	return append(l, id)
}

// Remove returns the list with every occurrence of id removed.
func (l StringList) Remove(id string) StringList {
	out := make(StringList, 0, len(l))
	for _, v := range l {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
