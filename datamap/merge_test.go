package datamap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/mhdata/config"
	"github.com/mogaika/mhdata/datamap"
)

func newTestBaseMap(t *testing.T) *datamap.DataMap {
	t.Helper()
	dm, err := datamap.NewDataMapFromMap(map[int]map[string]interface{}{
		1: {"name": map[string]string{"en": "test1"}},
		2: {"name": map[string]string{"en": "test2"}},
		3: {"name": map[string]string{"en": "test3"}},
	})
	require.NoError(t, err)
	return dm
}

func payloadOf(field string, v interface{}) *datamap.Entry {
	p := datamap.NewEntry()
	p.SetValue(field, v)
	return p
}

func TestMergeAddsFields(t *testing.T) {
	dm := newTestBaseMap(t)

	dm.Merge(datamap.Overlay{
		"test1": payloadOf("extended", 2),
		"test3": payloadOf("extended", 3),
	}, "")

	e1, err := dm.Get(1)
	require.NoError(t, err)
	v, err := e1.Value("extended")
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	e3, err := dm.Get(3)
	require.NoError(t, err)
	v, err = e3.Value("extended")
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	e2, err := dm.Get(2)
	require.NoError(t, err)
	assert.False(t, e2.Has("extended"), "expected entry 2 to stay untouched")
}

func TestMergeAddsFieldsUnderKey(t *testing.T) {
	dm := newTestBaseMap(t)

	dm.Merge(datamap.Overlay{
		"test1": payloadOf("extended", 2),
		"test3": payloadOf("extended", 3),
	}, "test")

	e1, err := dm.Get(1)
	require.NoError(t, err)
	v, err := e1.Value("test")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"extended": 2}, v)
	assert.False(t, e1.Has("extended"), "payload must not leak to the top level")

	e2, err := dm.Get(2)
	require.NoError(t, err)
	assert.False(t, e2.Has("test"), "expected entry 2 to stay untouched")
}

func TestMergeUnderKeyKeepsExistingFields(t *testing.T) {
	dm := newTestBaseMap(t)
	e1, err := dm.Get(1)
	require.NoError(t, err)
	e1.SetValue("test", map[string]interface{}{"old": 1})

	dm.Merge(datamap.Overlay{"test1": payloadOf("extended", 2)}, "test")

	v, err := e1.Value("test")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"old": 1, "extended": 2}, v)
}

func TestMergeOverwritesExistingField(t *testing.T) {
	dm := newTestBaseMap(t)
	e1, err := dm.Get(1)
	require.NoError(t, err)
	e1.SetValue("attack", 10)
	e1.SetValue("defense", 5)

	dm.Merge(datamap.Overlay{"test1": payloadOf("attack", 20)}, "")

	v, err := e1.Value("attack")
	require.NoError(t, err)
	assert.Equal(t, 20, v)
	v, err = e1.Value("defense")
	require.NoError(t, err)
	assert.Equal(t, 5, v, "fields not named by the overlay must stay")
	assert.Equal(t, []string{"name", "id", "attack", "defense"}, e1.Keys(),
		"overwriting must not reorder fields")
}

func TestMergeUnmatchedKeysSkipped(t *testing.T) {
	dm := newTestBaseMap(t)
	before := dm.ToMap()

	dm.Merge(datamap.Overlay{"nosuch": payloadOf("extended", 2)}, "")

	assert.Equal(t, before, dm.ToMap(), "unknown overlay keys must be a no-op")
}

func TestMergeAddsNames(t *testing.T) {
	dm, err := datamap.NewDataMapFromMap(map[int]map[string]interface{}{
		1: {"name": map[string]string{"en": "NAME EN"}},
	})
	require.NoError(t, err)

	dm.Merge(datamap.Overlay{
		"NAME EN": payloadOf("name", map[string]string{"es": "NAME ES"}),
	}, "")

	e, err := dm.Get(1)
	require.NoError(t, err)
	en, err := e.Name("en")
	require.NoError(t, err)
	assert.Equal(t, "NAME EN", en, "kept old name")
	es, err := e.Name("es")
	require.NoError(t, err)
	assert.Equal(t, "NAME ES", es)
}

func TestMergeKeepsExistingLanguage(t *testing.T) {
	dm, err := datamap.NewDataMapFromMap(map[int]map[string]interface{}{
		1: {"name": map[string]string{"en": "NAME EN"}},
	})
	require.NoError(t, err)

	dm.Merge(datamap.Overlay{
		"NAME EN": payloadOf("name", map[string]string{"en": "OTHER EN", "es": "NAME ES"}),
	}, "")

	e, err := dm.Get(1)
	require.NoError(t, err)
	en, err := e.Name("en")
	require.NoError(t, err)
	assert.Equal(t, "NAME EN", en, "existing languages are never overwritten")
}

func TestMergedNamesUpdateLookup(t *testing.T) {
	dm, err := datamap.NewDataMapFromMap(map[int]map[string]interface{}{
		1: {"name": map[string]string{"en": "NAME EN"}},
	})
	require.NoError(t, err)

	dm.Merge(datamap.Overlay{
		"NAME EN": payloadOf("name", map[string]string{"es": "NAME ES"}),
	}, "")

	assert.Contains(t, dm.Names("es"), "NAME ES")
	assert.NotNil(t, dm.EntryOf("es", "NAME ES"), "name lookup on merged language should work")
	id, err := dm.IdOf("es", "NAME ES")
	require.NoError(t, err)
	assert.Equal(t, 1, id)
}

func TestMergeById(t *testing.T) {
	dm := newTestBaseMap(t)

	dm.MergeById(map[int]*datamap.Entry{
		2:   payloadOf("extended", 2),
		404: payloadOf("extended", 4),
	}, "")

	e2, err := dm.Get(2)
	require.NoError(t, err)
	v, err := e2.Value("extended")
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	e1, err := dm.Get(1)
	require.NoError(t, err)
	assert.False(t, e1.Has("extended"))
}

func TestMergeUsesPrimaryLanguage(t *testing.T) {
	require.NoError(t, config.SetPrimaryLanguage("es"))
	defer func() {
		require.NoError(t, config.SetPrimaryLanguage("en"))
	}()

	dm, err := datamap.NewDataMapFromMap(map[int]map[string]interface{}{
		1: {"name": map[string]string{"en": "sword", "es": "espada"}},
	})
	require.NoError(t, err)

	dm.Merge(datamap.Overlay{"espada": payloadOf("extended", 2)}, "")
	dm.Merge(datamap.Overlay{"sword": payloadOf("wrong", true)}, "")

	e, err := dm.Get(1)
	require.NoError(t, err)
	v, err := e.Value("extended")
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.False(t, e.Has("wrong"), "english keys must not match while primary language is es")
}

func TestMergePayloadDoesNotAliasEntry(t *testing.T) {
	dm := newTestBaseMap(t)

	nested := map[string]interface{}{"nested": 5}
	dm.Merge(datamap.Overlay{"test1": payloadOf("somedata", nested)}, "")
	nested["nested"] = 6

	e, err := dm.Get(1)
	require.NoError(t, err)
	v, err := e.Value("somedata")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"nested": 5}, v)
}
