package datamap

import (
	"github.com/pkg/errors"

	"github.com/mogaika/mhdata/utils"
)

// Field names with meaning to the DataMap itself. Everything else is
// opaque payload owned by whoever loaded the data.
const (
	FIELD_ID   = "id"
	FIELD_NAME = "name"
)

var (
	ErrFieldNotFound     = errors.New("field not found")
	ErrLanguageNotFound  = errors.New("language not found")
	ErrEntryNotFound     = errors.New("entry not found")
	ErrIdConflict        = errors.New("conflicting entry id")
	ErrInvalidAfterField = errors.New("invalid insert-after field")
)

type entryField struct {
	Name  string
	Value interface{}
}

// Entry is a single record of a DataMap: an insertion-ordered set of
// named fields. The 'name' field holds a language code => localized
// name mapping and is required for entries stored in a DataMap.
type Entry struct {
	fields []entryField
}

func NewEntry() *Entry {
	return &Entry{}
}

func (e *Entry) findField(name string) int {
	for i := range e.fields {
		if e.fields[i].Name == name {
			return i
		}
	}
	return -1
}

func (e *Entry) Has(field string) bool {
	return e.findField(field) >= 0
}

func (e *Entry) Value(field string) (interface{}, error) {
	if i := e.findField(field); i >= 0 {
		return e.fields[i].Value, nil
	}
	return nil, errors.Wrapf(ErrFieldNotFound, "no field %q", field)
}

// Names returns the live name mapping of the entry, or nil when the
// entry has no 'name' field. Mutating the result outside of the
// owning DataMap leaves the name index stale.
func (e *Entry) Names() map[string]string {
	if i := e.findField(FIELD_NAME); i >= 0 {
		if names, ok := e.fields[i].Value.(map[string]string); ok {
			return names
		}
	}
	return nil
}

func (e *Entry) Name(lang string) (string, error) {
	i := e.findField(FIELD_NAME)
	if i < 0 {
		return "", errors.Wrapf(ErrFieldNotFound, "entry has no %q field", FIELD_NAME)
	}
	names, ok := e.fields[i].Value.(map[string]string)
	if !ok {
		return "", errors.Errorf("field %q is not a name mapping (%T)", FIELD_NAME, e.fields[i].Value)
	}
	name, ok := names[lang]
	if !ok {
		return "", errors.Wrapf(ErrLanguageNotFound, "no name for language %q", lang)
	}
	return name, nil
}

// Id returns the value of the 'id' field. Entries owned by a DataMap
// always carry one; for a detached entry without the field the result
// is 0.
func (e *Entry) Id() int {
	if i := e.findField(FIELD_ID); i >= 0 {
		if id, ok := e.fields[i].Value.(int); ok {
			return id
		}
	}
	return 0
}

// SetValue replaces the value of an existing field in place, or
// appends a new field at the end.
func (e *Entry) SetValue(field string, v interface{}) {
	if i := e.findField(field); i >= 0 {
		e.fields[i].Value = v
		return
	}
	e.fields = append(e.fields, entryField{Name: field, Value: v})
}

// SetValueAfter behaves like SetValue, except that a new field is
// inserted immediately after the named existing field instead of at
// the end. The position of an already existing field is not changed.
func (e *Entry) SetValueAfter(field string, v interface{}, after string) error {
	pos := e.findField(after)
	if pos < 0 {
		return errors.Wrapf(ErrInvalidAfterField, "no field %q to insert after", after)
	}
	if i := e.findField(field); i >= 0 {
		e.fields[i].Value = v
		return nil
	}
	e.fields = append(e.fields, entryField{})
	copy(e.fields[pos+2:], e.fields[pos+1:])
	e.fields[pos+1] = entryField{Name: field, Value: v}
	return nil
}

func (e *Entry) Keys() []string {
	keys := make([]string, len(e.fields))
	for i := range e.fields {
		keys[i] = e.fields[i].Name
	}
	return keys
}

func (e *Entry) Len() int {
	return len(e.fields)
}

// Copy returns a deep copy of the entry. Nested payloads are cloned,
// so mutating one entry never shows through the other.
func (e *Entry) Copy() *Entry {
	clone := &Entry{fields: make([]entryField, len(e.fields))}
	for i := range e.fields {
		clone.fields[i] = entryField{
			Name:  e.fields[i].Name,
			Value: utils.DeepCloneValue(e.fields[i].Value),
		}
	}
	return clone
}

// ToMap projects the entry onto a plain nested mapping. The result is
// deep-copied; field order is carried by the yaml codec, not by Go
// maps.
func (e *Entry) ToMap() map[string]interface{} {
	m := make(map[string]interface{}, len(e.fields))
	for i := range e.fields {
		m[e.fields[i].Name] = utils.DeepCloneValue(e.fields[i].Value)
	}
	return m
}
