package datamap

import (
	"log"

	"github.com/mogaika/mhdata/config"
	"github.com/mogaika/mhdata/utils"
)

// Overlay holds supplementary data to layer onto existing entries,
// keyed by the entry's localized name in the primary language.
type Overlay map[string]*Entry

// Merge layers overlay payloads onto the entries they name. Overlay
// keys without a matching entry are skipped, overlay data is optional
// by nature. With key == "" payload fields merge into the entry top
// level; otherwise the whole payload lands under entry[key].
//
// A top level 'name' payload only adds languages: translations the
// entry already has are kept, and the name index picks up the new
// (language, name) pairs.
func (dm *DataMap) Merge(overlay Overlay, key string) {
	lang := config.GetPrimaryLanguage()
	for name, payload := range overlay {
		if target := dm.EntryOf(lang, name); target != nil {
			dm.mergeEntry(target, payload, key)
		}
	}
}

// MergeById is the identifier-keyed variant of Merge. String overlay
// keys never fall back to id matching and vice versa.
func (dm *DataMap) MergeById(overlay map[int]*Entry, key string) {
	for id, payload := range overlay {
		if target, exist := dm.entries[id]; exist {
			dm.mergeEntry(target, payload, key)
		}
	}
}

func (dm *DataMap) mergeEntry(target, payload *Entry, key string) {
	if payload == nil {
		return
	}

	if key != "" {
		var nested map[string]interface{}
		if cur, err := target.Value(key); err == nil {
			// merge into an existing mapping, replace anything else
			nested, _ = cur.(map[string]interface{})
		}
		if nested == nil {
			nested = make(map[string]interface{}, payload.Len())
		}
		for i := range payload.fields {
			nested[payload.fields[i].Name] = utils.DeepCloneValue(payload.fields[i].Value)
		}
		target.SetValue(key, nested)
		return
	}

	for i := range payload.fields {
		f := &payload.fields[i]
		if f.Name == FIELD_NAME {
			dm.mergeNames(target, f.Value)
			continue
		}
		target.SetValue(f.Name, utils.DeepCloneValue(f.Value))
	}
}

func (dm *DataMap) mergeNames(target *Entry, v interface{}) {
	overlayNames, err := normalizeNames(v)
	if err != nil {
		log.Printf("[datamap] merge: ignoring malformed %q payload for entry %d: %v",
			FIELD_NAME, target.Id(), err)
		return
	}

	names := target.Names()
	if names == nil {
		names = make(map[string]string, len(overlayNames))
		target.SetValue(FIELD_NAME, names)
	}
	for lang, name := range overlayNames {
		if _, exist := names[lang]; exist {
			// never drop or replace a translation we already have
			continue
		}
		names[lang] = name
	}
	dm.indexNames(target.Id(), names)
}
