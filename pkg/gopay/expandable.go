package gopay

import (
	"bytes"
	"encoding/json"
)

// Expandable is a reference that the API returns either as a bare id or, when
// the field was listed in Params.Expand, as the full inlined object.
type Expandable[I ~string, T any] struct {
	ID     I
	Object *T
}

// Expanded reports whether the full object was inlined.
func (e Expandable[I, T]) Expanded() bool { return e.Object != nil }

func (e *Expandable[I, T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		e.ID, e.Object = I(id), nil
		return nil
	}

	id, _, err := objectTag(data)
	if err != nil {
		return err
	}
	obj := new(T)
	if err := json.Unmarshal(data, obj); err != nil {
		return err
	}
	e.ID, e.Object = I(id), obj
	return nil
}

func (e Expandable[I, T]) MarshalJSON() ([]byte, error) {
	if e.Object != nil {
		return json.Marshal(e.Object)
	}
	return json.Marshal(string(e.ID))
}
