package config

import (
	"github.com/pkg/errors"
	"golang.org/x/text/language"
)

// Language codes used as keys inside entry 'name' mappings.
// Data files use plain lowercase codes ("en", "es", "ja"), so we keep
// the caller's spelling and only use x/text to reject garbage.
var primaryLanguage = "en"

func SetPrimaryLanguage(code string) error {
	if _, err := language.Parse(code); err != nil {
		return errors.Wrapf(err, "Unknown language code %q", code)
	}
	primaryLanguage = code
	return nil
}

func GetPrimaryLanguage() string {
	return primaryLanguage
}
