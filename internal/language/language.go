package language

import (
	"strings"

	"golang.org/x/text/cases"
	xlang "golang.org/x/text/language"
)

type entry struct {
	code2   string // ISO 639-1 (2-letter)
	word    string // Full word form (e.g. "english")
	chunked bool   // Served by the chunked-output model family only
}

// The supported spoken-language selections. Akan has no segment-family model;
// requests for it route to the chunked engine family.
var languages = []entry{
	{"en", "english", false},
	{"ak", "akan", true},
	{"es", "spanish", false},
	{"fr", "french", false},
	{"de", "german", false},
	{"it", "italian", false},
	{"pt", "portuguese", false},
	{"nl", "dutch", false},
	{"ru", "russian", false},
	{"ja", "japanese", false},
	{"zh", "chinese", false},
	{"ar", "arabic", false},
	{"hi", "hindi", false},
	{"sw", "swahili", false},
	{"yo", "yoruba", false},
}

var (
	byCode2 map[string]*entry
	byWord  map[string]*entry
	titler  = cases.Title(xlang.English)
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byWord[e.word] = e
	}
}

// Auto is the sentinel for engine-side language detection.
const Auto = "auto"

func lookup(value string) *entry {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return nil
	}
	if e, ok := byCode2[value]; ok {
		return e
	}
	if e, ok := byWord[value]; ok {
		return e
	}
	return nil
}

// Normalize converts a code or language word to its ISO 639-1 code. Empty
// input and "auto" normalize to Auto; unrecognized input returns "", false.
func Normalize(value string) (string, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" || value == Auto {
		return Auto, true
	}
	if e := lookup(value); e != nil {
		return e.code2, true
	}
	return "", false
}

// Display returns the title-cased language name for a supported code.
func Display(code string) string {
	if code == Auto || code == "" {
		return "Auto-Detect"
	}
	if e := lookup(code); e != nil {
		return titler.String(e.word)
	}
	return strings.ToUpper(code)
}

// RequiresChunked reports whether the language is only served by the
// chunked-output model family.
func RequiresChunked(code string) bool {
	if e := lookup(code); e != nil {
		return e.chunked
	}
	return false
}

// Codes returns the supported ISO 639-1 codes in listing order.
func Codes() []string {
	codes := make([]string, len(languages))
	for i, e := range languages {
		codes[i] = e.code2
	}
	return codes
}
