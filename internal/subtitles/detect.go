package subtitles

import (
	"strings"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// DetectLanguage retourne la langue majoritaire des segments (vote par segment).
// language.Und si aucun segment n'est exploitable.
func DetectLanguage(segments []Segment) language.Tag {
	counts := make(map[string]int)
	for _, s := range segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		code := whatlanggo.DetectLang(text).Iso6391()
		if code == "" {
			continue
		}
		counts[code]++
	}

	var top string
	var topCount int
	for code, n := range counts {
		// départage déterministe en cas d'égalité
		if n > topCount || (n == topCount && code < top) {
			top = code
			topCount = n
		}
	}
	if top == "" {
		return language.Und
	}
	tag, err := language.Parse(top)
	if err != nil {
		return language.Und
	}
	return tag
}

// LanguageName retourne le nom anglais d'un code langue BCP 47 ("fr" -> "French").
// Retourne le code tel quel s'il n'est pas reconnu.
func LanguageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	name := display.English.Tags().Name(tag)
	if name == "" {
		return code
	}
	return name
}
