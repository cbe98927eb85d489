package format

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// knownLanguages are the tags LanguageTag can recognise by name.
var knownLanguages = []language.Tag{
	language.Afrikaans, language.Arabic, language.Bulgarian, language.Catalan,
	language.Chinese, language.Croatian, language.Czech, language.Danish,
	language.Dutch, language.English, language.Estonian, language.Filipino,
	language.Finnish, language.French, language.German, language.Greek,
	language.Hebrew, language.Hindi, language.Hungarian, language.Icelandic,
	language.Indonesian, language.Italian, language.Japanese, language.Korean,
	language.Latvian, language.Lithuanian, language.Malay, language.Norwegian,
	language.Persian, language.Polish, language.Portuguese, language.Romanian,
	language.Russian, language.Serbian, language.Slovak, language.Slovenian,
	language.Spanish, language.Swedish, language.Thai, language.Turkish,
	language.Ukrainian, language.Vietnamese,
}

var languageByName = buildLanguageIndex()

func buildLanguageIndex() map[string]language.Tag {
	index := make(map[string]language.Tag, len(knownLanguages)*2)
	english := display.English.Tags()
	for _, tag := range knownLanguages {
		index[strings.ToLower(english.Name(tag))] = tag
		index[strings.ToLower(display.Self.Name(tag))] = tag
	}
	// Names used by fanfiction sites that differ from the CLDR ones.
	index["tagalog"] = language.Filipino
	index["chinese"] = language.Chinese
	return index
}

// LanguageTag turns a language name ("English", "Español") or a BCP 47 code
// into a BCP 47 tag. fallback is returned when the value is not recognised.
func LanguageTag(value string, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	if tag, ok := languageByName[strings.ToLower(value)]; ok {
		return tag.String()
	}
	if tag, err := language.Parse(value); err == nil && tag != language.Und {
		return tag.String()
	}
	return fallback
}
