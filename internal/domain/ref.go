package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Ref is a foreign key as returned by the admin API. The API sends either the
// raw id string or a populated object carrying "_id" or "id"; both collapse to ID.
type Ref struct {
	ID   string `json:"-"`
	Name string `json:"-"` // Only set when the API populated the reference
}

func NewRef(id string) Ref {
	return Ref{ID: strings.TrimSpace(id)}
}

func (r Ref) IsZero() bool {
	return r.ID == ""
}

func (r Ref) String() string {
	return r.ID
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Ref{}
		return nil
	}

	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return fmt.Errorf("failed to decode reference id: %w", err)
		}
		*r = NewRef(id)
		return nil
	}

	var obj struct {
		MongoID string `json:"_id"`
		ID      string `json:"id"`
		Name    string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("failed to decode reference object: %w", err)
	}

	id := obj.MongoID
	if id == "" {
		id = obj.ID
	}
	*r = Ref{ID: strings.TrimSpace(id), Name: obj.Name}
	return nil
}

func (r Ref) MarshalJSON() ([]byte, error) {
	if r.ID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

// ExtractID normalizes any reference shape seen at the API boundary into a plain id.
// Unknown shapes yield "".
func ExtractID(v any) string {
	switch ref := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(ref)
	case Ref:
		return ref.ID
	case *Ref:
		if ref == nil {
			return ""
		}
		return ref.ID
	case Identifiable:
		if isNilPointer(ref) {
			return ""
		}
		return ref.GetID()
	case map[string]any:
		for _, key := range []string{"_id", "id"} {
			if id, ok := ref[key].(string); ok && id != "" {
				return strings.TrimSpace(id)
			}
		}
		return ""
	default:
		return ""
	}
}

// isNilPointer catches typed nil entity pointers, whose value-receiver
// methods would panic
func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
