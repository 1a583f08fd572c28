package enricher

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

// minLanguageSample is the shortest preview text worth classifying.
const minLanguageSample = 80

var supportedLanguages = []lingua.Language{
	lingua.English, lingua.German, lingua.French, lingua.Spanish,
	lingua.Portuguese, lingua.Italian, lingua.Dutch, lingua.Japanese,
}

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

func languageDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(supportedLanguages...).
			WithMinimumRelativeDistance(0.25).
			Build()
	})
	return detector
}

// DetectLanguage returns the lowercase ISO 639-1 code of the dominant
// language in samples, or "" when the text is too short or ambiguous.
func DetectLanguage(samples []string) string {
	text := strings.TrimSpace(strings.Join(samples, " "))
	if len(text) < minLanguageSample {
		return ""
	}
	lang, ok := languageDetector().DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
