// Package language picks the name and lyrics variants that best match an
// ordered list of preferred language codes.
package language

import (
	"strings"

	textlang "golang.org/x/text/language"

	"github.com/sydlexius/vocasync/internal/catalog"
)

// Codes reported for the variant a resolution picked.
const (
	CodeOriginal  = "ja"
	CodeEnglish   = "en"
	CodeRomanized = "ja-Latn"
)

// Values accepted by the catalog API's lang parameter.
const (
	ContentJapanese = "Japanese"
	ContentRomaji   = "Romaji"
	ContentEnglish  = "English"
)

type field int

const (
	fieldOriginal field = iota
	fieldEnglish
)

// classify maps a configured code to the bundle field it selects. "jp",
// "ja" and anything that is not a recognized language tag select the
// original field.
func classify(code string) field {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "jp" || code == "ja" || code == "" {
		return fieldOriginal
	}
	tag, err := textlang.Parse(code)
	if err != nil {
		return fieldOriginal
	}
	if base, _ := tag.Base(); base.String() == "ja" {
		return fieldOriginal
	}
	return fieldEnglish
}

// Resolve returns the best name for the preference list. It returns ""
// only when every field of names is empty.
func Resolve(names catalog.Names, preferred []string, preferRomaji bool) string {
	value, _ := ResolveWithCode(names, preferred, preferRomaji)
	return value
}

// ResolveWithCode is Resolve that also reports which variant was picked
// as a language code, or "" when nothing was.
func ResolveWithCode(names catalog.Names, preferred []string, preferRomaji bool) (string, string) {
	if preferRomaji && names.Romanized != "" {
		return names.Romanized, CodeRomanized
	}
	for _, code := range preferred {
		switch classify(code) {
		case fieldOriginal:
			if names.Original != "" {
				return names.Original, CodeOriginal
			}
		case fieldEnglish:
			if names.English != "" {
				return names.English, CodeEnglish
			}
		}
	}
	switch {
	case names.Original != "":
		return names.Original, CodeOriginal
	case names.English != "":
		return names.English, CodeEnglish
	case names.Romanized != "":
		return names.Romanized, CodeRomanized
	}
	return "", ""
}

// ContentLanguage returns the catalog lang parameter for the preference
// list: the first "jp"/"ja" or "en" entry decides, English otherwise.
func ContentLanguage(preferred []string, preferRomaji bool) string {
	for _, code := range preferred {
		switch strings.ToLower(strings.TrimSpace(code)) {
		case "jp", "ja":
			if preferRomaji {
				return ContentRomaji
			}
			return ContentJapanese
		case "en":
			return ContentEnglish
		}
	}
	return ContentEnglish
}
