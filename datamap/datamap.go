package datamap

import (
	"log"
	"sort"

	"github.com/pkg/errors"

	"github.com/mogaika/mhdata/utils"
)

// DataMap is an id-keyed collection of entries that iterates in
// insertion order and supports lookup by localized name through a
// derived (language, name) => id index.
//
// A DataMap owns its entries exclusively and is not safe for
// concurrent mutation; callers that share one across goroutines must
// synchronize on their side.
type DataMap struct {
	order   []int
	entries map[int]*Entry
	names   map[string]map[string]int
	nextId  int
}

func NewDataMap() *DataMap {
	return &DataMap{
		entries: make(map[int]*Entry),
		names:   make(map[string]map[string]int),
		nextId:  1,
	}
}

// NewDataMapFromMap builds a DataMap from a raw id => fields mapping.
// Go maps carry no order, so entries are inserted by ascending id;
// use the yaml codec when document order matters.
func NewDataMapFromMap(raw map[int]map[string]interface{}) (*DataMap, error) {
	dm := NewDataMap()

	ids := make([]int, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		if err := dm.AddEntry(id, entryFromMap(raw[id])); err != nil {
			return nil, errors.Wrapf(err, "Failed to add entry %d", id)
		}
	}
	return dm, nil
}

func entryFromMap(fields map[string]interface{}) *Entry {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// clone so the map never aliases caller-owned payloads
	e := NewEntry()
	for _, k := range keys {
		e.SetValue(k, utils.DeepCloneValue(fields[k]))
	}
	return e
}

// normalizeNames coerces a raw 'name' payload into the canonical
// map[string]string form.
func normalizeNames(v interface{}) (map[string]string, error) {
	switch names := v.(type) {
	case map[string]string:
		return names, nil
	case map[string]interface{}:
		m := make(map[string]string, len(names))
		for lang, name := range names {
			s, ok := name.(string)
			if !ok {
				return nil, errors.Errorf("Name for language %q is not a string (%T)", lang, name)
			}
			m[lang] = s
		}
		return m, nil
	default:
		return nil, errors.Errorf("Field %q is not a language mapping (%T)", FIELD_NAME, v)
	}
}

func entryIdField(e *Entry) (int, bool, error) {
	i := e.findField(FIELD_ID)
	if i < 0 {
		return 0, false, nil
	}
	id, ok := e.fields[i].Value.(int)
	if !ok {
		return 0, true, errors.Errorf("Field %q must be an integer (%T)", FIELD_ID, e.fields[i].Value)
	}
	return id, true, nil
}

// AddEntry stores e under the given id. The entry must carry a 'name'
// field; a present 'id' field must match id, anything else is a
// contract violation. Validation happens before any mutation so a
// failed add leaves both the map and the entry untouched.
func (dm *DataMap) AddEntry(id int, e *Entry) error {
	if e == nil {
		return errors.Errorf("Cannot add nil entry under id %d", id)
	}
	if fieldId, present, err := entryIdField(e); err != nil {
		return err
	} else if present && fieldId != id {
		return errors.Wrapf(ErrIdConflict, "entry id field %d does not match id %d", fieldId, id)
	}
	if _, exist := dm.entries[id]; exist {
		return errors.Errorf("Entry with id %d already exists", id)
	}
	nameValue, err := e.Value(FIELD_NAME)
	if err != nil {
		return errors.Wrapf(err, "Entry %d misses required field", id)
	}
	names, err := normalizeNames(nameValue)
	if err != nil {
		return errors.Wrapf(err, "Entry %d has malformed %q field", id, FIELD_NAME)
	}

	e.SetValue(FIELD_ID, id)
	e.SetValue(FIELD_NAME, names)

	dm.order = append(dm.order, id)
	dm.entries[id] = e
	dm.indexNames(id, names)

	if id >= dm.nextId {
		dm.nextId = id + 1
	}
	return nil
}

// Insert adds the entry under its own 'id' field if it has one, or
// under the next auto-assigned id otherwise.
func (dm *DataMap) Insert(e *Entry) (*Entry, error) {
	if e == nil {
		return nil, errors.Errorf("Cannot insert nil entry")
	}
	id, present, err := entryIdField(e)
	if err != nil {
		return nil, err
	}
	if !present {
		id = dm.nextId
	}
	if err := dm.AddEntry(id, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (dm *DataMap) indexNames(id int, names map[string]string) {
	for lang, name := range names {
		byName := dm.names[lang]
		if byName == nil {
			byName = make(map[string]int)
			dm.names[lang] = byName
		}
		if prev, exist := byName[name]; exist && prev != id {
			log.Printf("[datamap] name %q (%s) reused by entry %d, was %d", name, lang, id, prev)
		}
		byName[name] = id
	}
}

func (dm *DataMap) Len() int {
	return len(dm.order)
}

func (dm *DataMap) Has(id int) bool {
	_, exist := dm.entries[id]
	return exist
}

func (dm *DataMap) Get(id int) (*Entry, error) {
	if e, exist := dm.entries[id]; exist {
		return e, nil
	}
	return nil, errors.Wrapf(ErrEntryNotFound, "no entry with id %d", id)
}

// Keys returns the entry ids in insertion order.
func (dm *DataMap) Keys() []int {
	keys := make([]int, len(dm.order))
	copy(keys, dm.order)
	return keys
}

// Values returns the entries in insertion order. The entries are the
// live ones, not copies.
func (dm *DataMap) Values() []*Entry {
	values := make([]*Entry, 0, len(dm.order))
	for _, id := range dm.order {
		values = append(values, dm.entries[id])
	}
	return values
}

// Names returns every localized name known for the language, in entry
// insertion order.
func (dm *DataMap) Names(lang string) []string {
	names := make([]string, 0, len(dm.order))
	for _, id := range dm.order {
		if name, exist := dm.entries[id].Names()[lang]; exist {
			names = append(names, name)
		}
	}
	return names
}

// Languages returns the sorted set of language codes seen across all
// entries.
func (dm *DataMap) Languages() []string {
	langs := make([]string, 0, len(dm.names))
	for lang := range dm.names {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// IdOf resolves a localized name to an entry id through the name
// index.
func (dm *DataMap) IdOf(lang, name string) (int, error) {
	if id, exist := dm.names[lang][name]; exist {
		return id, nil
	}
	return 0, errors.Wrapf(ErrEntryNotFound, "no entry named %q (%s)", name, lang)
}

// EntryOf is the lenient sibling of IdOf: it returns nil instead of
// an error when no entry has that name, so it doubles as an existence
// check.
func (dm *DataMap) EntryOf(lang, name string) *Entry {
	id, exist := dm.names[lang][name]
	if !exist {
		return nil
	}
	return dm.entries[id]
}

// Copy returns a deep clone of the map. The clone owns independent
// entries, mutating either side never affects the other.
func (dm *DataMap) Copy() *DataMap {
	clone := NewDataMap()
	for _, id := range dm.order {
		clone.order = append(clone.order, id)
		clone.entries[id] = dm.entries[id].Copy()
		clone.indexNames(id, clone.entries[id].Names())
	}
	clone.nextId = dm.nextId
	return clone
}

// ToMap projects the whole map onto plain nested mappings, suitable
// for feeding back into NewDataMapFromMap.
func (dm *DataMap) ToMap() map[int]map[string]interface{} {
	m := make(map[int]map[string]interface{}, len(dm.order))
	for id, e := range dm.entries {
		m[id] = e.ToMap()
	}
	return m
}
