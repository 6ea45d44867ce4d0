package gopay

import (
	"reflect"
	"slices"
)

// Open enumerations are plain string types. Any value decodes, so a status the
// API introduces later does not break a response; values outside the declared
// set report Known() == false and refuse to be encoded again.

func isKnown[T ~string](v T, known []T) bool {
	return slices.Contains(known, v)
}

func marshalEnum[T ~string](name string, v T, known []T) ([]byte, error) {
	if !isKnown(v, known) {
		return nil, &UnrecognizedValueError{Type: name, Value: string(v)}
	}
	return []byte(v), nil
}

// checkEnum validates an optional enum parameter before it is encoded.
func checkEnum[T ~string](name string, v *T, known []T) error {
	if v == nil || isKnown(*v, known) {
		return nil
	}
	return &UnrecognizedValueError{Type: name, Value: string(*v)}
}

func checkCurrency(c *Currency) error {
	if c == nil {
		return nil
	}
	return c.Validate()
}

type knownValue interface {
	Known() bool
}

// checkKnown walks a parameter value through pointers, structs, slices and
// maps and rejects the first enum or currency outside its declared set. The
// form encoder does not call MarshalText, so this is what keeps an
// unrecognized value from reaching the wire.
func checkKnown(v reflect.Value) error {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return checkKnown(v.Elem())
	case reflect.String:
		switch x := v.Interface().(type) {
		case Currency:
			return x.Validate()
		case knownValue:
			if !x.Known() {
				return &UnrecognizedValueError{Type: v.Type().Name(), Value: v.String()}
			}
		}
	case reflect.Struct:
		t := v.Type()
		for i := range t.NumField() {
			if !t.Field(i).IsExported() {
				continue
			}
			if err := checkKnown(v.Field(i)); err != nil {
				return err
			}
		}
	case reflect.Slice, reflect.Array:
		for i := range v.Len() {
			if err := checkKnown(v.Index(i)); err != nil {
				return err
			}
		}
	case reflect.Map:
		it := v.MapRange()
		for it.Next() {
			if err := checkKnown(it.Value()); err != nil {
				return err
			}
		}
	}
	return nil
}
