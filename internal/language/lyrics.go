package language

import "github.com/sydlexius/vocasync/internal/catalog"

// Lyrics is the selected lyrics text with the ISO 639-2 language and
// ISO 15924 script of the original variant.
type Lyrics struct {
	Text     string
	Language string
	Script   string
}

// SelectLyrics picks original or English-translated lyrics. When the
// translated variant is missing it falls back to the original, and when
// no original exists either, to the first entry.
func SelectLyrics(entries []catalog.Lyrics, translated bool) Lyrics {
	if len(entries) == 0 {
		return Lyrics{}
	}

	var original, translation *catalog.Lyrics
	for i := range entries {
		e := &entries[i]
		switch e.TranslationType {
		case catalog.TranslationOriginal:
			if original == nil {
				original = e
			}
		case catalog.TranslationTranslation:
			if translation == nil && hasCulture(e, "en") {
				translation = e
			}
		}
	}

	var out Lyrics
	if original != nil {
		out.Language, out.Script = languageScript(original)
	}

	switch {
	case translated && translation != nil:
		out.Text = translation.Value
	case original != nil:
		out.Text = original.Value
	default:
		out.Text = entries[0].Value
	}
	return out
}

func languageScript(e *catalog.Lyrics) (string, string) {
	ja, en := hasCulture(e, "ja"), hasCulture(e, "en")
	switch {
	case ja && en:
		return "mul", "Qaaa"
	case ja:
		return "jpn", "Jpan"
	case en:
		return "eng", "Latn"
	}
	return "", ""
}

func hasCulture(e *catalog.Lyrics, code string) bool {
	for _, c := range e.CultureCodes {
		if c == code {
			return true
		}
	}
	return false
}
