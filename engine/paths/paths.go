// Package paths implements generic deep-get and deep-set over a tree of
// nested records addressed by dot-delimited path strings. Set produces a
// structurally-shared copy: every ancestor of the edited field is a fresh
// allocation while untouched subtrees keep their identity, so a reactive
// caller can detect changes by reference equality.
package paths

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// ResolutionError reports a path that does not resolve against the current
// shape of the tree. It names the first segment that failed and indicates a
// programming error in the caller, not bad user input.
type ResolutionError struct {
	Path    string
	Segment string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("path %q does not resolve at segment %q", e.Path, e.Segment)
}

// Set returns a copy of root with the field at path replaced by value. The
// root must be a non-nil pointer to a struct. Path segments address struct
// fields by their json tag (falling back to the field name) and slice
// elements by index. Every intermediate node must already exist: resolving
// through a nil pointer or slice fails with a ResolutionError.
func Set(root any, path string, value any) (any, error) {
	rv := reflect.ValueOf(root)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("paths: root must be a non-nil struct pointer, got %T", root)
	}
	if path == "" {
		return nil, &ResolutionError{Path: path, Segment: ""}
	}
	segs := strings.Split(path, ".")

	newRoot := clonePointer(rv)
	cur := newRoot.Elem()

	for i, seg := range segs {
		var field reflect.Value
		switch cur.Kind() {
		case reflect.Struct:
			field = fieldByName(cur, seg)
			if !field.IsValid() {
				return nil, &ResolutionError{Path: path, Segment: seg}
			}
		case reflect.Slice:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= cur.Len() {
				return nil, &ResolutionError{Path: path, Segment: seg}
			}
			field = cur.Index(idx)
		default:
			return nil, &ResolutionError{Path: path, Segment: seg}
		}

		if i == len(segs)-1 {
			if err := assign(field, value, seg); err != nil {
				return nil, err
			}
			return newRoot.Interface(), nil
		}

		// Clone the node we are descending into so the previous tree stays
		// intact.
		switch field.Kind() {
		case reflect.Pointer:
			if field.IsNil() {
				return nil, &ResolutionError{Path: path, Segment: seg}
			}
			np := clonePointer(field)
			field.Set(np)
			cur = np.Elem()
		case reflect.Slice:
			if field.IsNil() {
				return nil, &ResolutionError{Path: path, Segment: seg}
			}
			ns := reflect.MakeSlice(field.Type(), field.Len(), field.Cap())
			reflect.Copy(ns, field)
			field.Set(ns)
			cur = field
		case reflect.Struct:
			cur = field
		default:
			return nil, &ResolutionError{Path: path, Segment: seg}
		}
	}
	return newRoot.Interface(), nil
}

// Get resolves path against root and returns the value found there.
func Get(root any, path string) (any, error) {
	if path == "" {
		return nil, &ResolutionError{Path: path, Segment: ""}
	}
	v := reflect.ValueOf(root)
	for _, seg := range strings.Split(path, ".") {
		for v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return nil, &ResolutionError{Path: path, Segment: seg}
			}
			v = v.Elem()
		}
		switch v.Kind() {
		case reflect.Struct:
			f := fieldByName(v, seg)
			if !f.IsValid() {
				return nil, &ResolutionError{Path: path, Segment: seg}
			}
			v = f
		case reflect.Slice:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= v.Len() {
				return nil, &ResolutionError{Path: path, Segment: seg}
			}
			v = v.Index(idx)
		default:
			return nil, &ResolutionError{Path: path, Segment: seg}
		}
	}
	return v.Interface(), nil
}

func clonePointer(v reflect.Value) reflect.Value {
	np := reflect.New(v.Type().Elem())
	np.Elem().Set(v.Elem())
	return np
}

func fieldByName(v reflect.Value, name string) reflect.Value {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		if comma := strings.Index(tag, ","); comma >= 0 {
			tag = tag[:comma]
		}
		if tag == name {
			return v.Field(i)
		}
	}
	for i := 0; i < t.NumField(); i++ {
		if strings.EqualFold(t.Field(i).Name, name) {
			return v.Field(i)
		}
	}
	return reflect.Value{}
}

func assign(field reflect.Value, value any, seg string) error {
	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}
	rv := reflect.ValueOf(value)
	switch {
	case rv.Type().AssignableTo(field.Type()):
		field.Set(rv)
	case isNumeric(rv.Kind()) && isNumeric(field.Kind()):
		field.Set(rv.Convert(field.Type()))
	default:
		return fmt.Errorf("paths: cannot assign %s to %s at segment %q", rv.Type(), field.Type(), seg)
	}
	return nil
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
