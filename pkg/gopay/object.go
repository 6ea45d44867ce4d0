package gopay

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Object is implemented by every resource returned by the API.
type Object interface {
	// ObjectID returns the resource's primary identifier.
	ObjectID() string

	// ObjectType returns the fixed type tag, e.g. "customer".
	ObjectType() string
}

// Deleted is the marker returned by delete operations.
type Deleted[I ~string] struct {
	ID      I      `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// deletedFields has the fields of Deleted without its methods.
type deletedFields[I ~string] Deleted[I]

func (d *Deleted[I]) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "deleted object", (*deletedFields[I])(d), "id", "deleted")
}

func (d *Deleted[I]) ObjectID() string   { return string(d.ID) }
func (d *Deleted[I]) ObjectType() string { return d.Object }

// decodeObject decodes a resource after checking that every required field is
// present and not null. Optional fields are pointers and stay nil when absent.
// v must be a pointer to a method-less alias of the resource so the call does
// not recurse into the resource's own UnmarshalJSON.
func decodeObject(data []byte, object string, v any, required ...string) error {
	if len(required) > 0 {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil {
			return fmt.Errorf("%s: %w", object, err)
		}
		for _, name := range required {
			raw, ok := fields[name]
			if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
				return &SchemaError{Object: object, Field: name}
			}
		}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", object, err)
	}
	return nil
}

// objectTag reads the "object" field of a JSON object without decoding the rest.
func objectTag(data []byte) (id, object string, err error) {
	var head struct {
		ID     string `json:"id"`
		Object string `json:"object"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return "", "", err
	}
	return head.ID, head.Object, nil
}
