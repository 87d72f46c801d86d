package extract

import (
	"strings"

	"github.com/abadojack/whatlanggo"

	"github.com/ppiankov/campusfaq/internal/model"
)

// Detector guesses the language of a piece of text as an ISO-639-1 code
type Detector interface {
	Detect(text string) string
}

// NewDetector returns the detector registered under name.
// Unknown names get the whatlanggo detector.
func NewDetector(name string) Detector {
	switch strings.ToLower(name) {
	case "script":
		return ScriptDetector{}
	default:
		return NewWhatlangDetector()
	}
}

// hindiLetters are the Devanagari letters that mark text as Hindi
const hindiLetters = "अआइईउऊएऐओऔकखगघङचछजझञटठडढणतथदधनपफबभमयरलवशषसह"

// ScriptDetector says "hi" when text contains a Devanagari letter and "en" otherwise
type ScriptDetector struct{}

// Detect returns the language code for text
func (ScriptDetector) Detect(text string) string {
	if strings.ContainsAny(text, hindiLetters) {
		return model.LanguageHindi
	}
	return model.LanguageEnglish
}

// whatlangCodes are the languages campus documents are expected in
var whatlangCodes = map[whatlanggo.Lang]string{
	whatlanggo.Eng: "en",
	whatlanggo.Hin: "hi",
	whatlanggo.Ben: "bn",
	whatlanggo.Guj: "gu",
	whatlanggo.Pan: "pa",
	whatlanggo.Tam: "ta",
	whatlanggo.Tel: "te",
	whatlanggo.Kan: "kn",
	whatlanggo.Mal: "ml",
	whatlanggo.Urd: "ur",
}

// WhatlangDetector detects language with whatlanggo, restricted to the
// languages above. Anything it cannot place goes to the script detector.
type WhatlangDetector struct {
	options  whatlanggo.Options
	fallback Detector
}

// NewWhatlangDetector creates a whatlanggo-backed detector
func NewWhatlangDetector() *WhatlangDetector {
	whitelist := make(map[whatlanggo.Lang]bool, len(whatlangCodes))
	for lang := range whatlangCodes {
		whitelist[lang] = true
	}
	return &WhatlangDetector{
		options:  whatlanggo.Options{Whitelist: whitelist},
		fallback: ScriptDetector{},
	}
}

// Detect returns the language code for text
func (d *WhatlangDetector) Detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return model.LanguageEnglish
	}
	info := whatlanggo.DetectWithOptions(text, d.options)
	if code, ok := whatlangCodes[info.Lang]; ok {
		return code
	}
	return d.fallback.Detect(text)
}
