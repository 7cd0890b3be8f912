package lang

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/seu-repo/ai-secretary/internal/ports"
)

const DefaultLanguage = "en"

// Supported is the closed set of 2-letter codes the assistant understands.
var Supported = []string{"ru", "de", "en", "zh", "es", "fr", "it", "pt", "ja", "ko"}

var names = map[string]string{
	"ru": "Russian",
	"de": "German",
	"en": "English",
	"zh": "Chinese",
	"es": "Spanish",
	"fr": "French",
	"it": "Italian",
	"pt": "Portuguese",
	"ja": "Japanese",
	"ko": "Korean",
}

// nameToCode maps language names, as a model or a user may write them, to codes.
var nameToCode = map[string]string{
	"russian": "ru", "русский": "ru", "russisch": "ru", "russische": "ru", "俄语": "ru",
	"german": "de", "deutsch": "de", "deutsche": "de", "немецкий": "de", "德语": "de",
	"english": "en", "englisch": "en", "englische": "en", "английский": "en", "英语": "en",
	"chinese": "zh", "chinesisch": "zh", "chinesische": "zh", "китайский": "zh", "中文": "zh", "汉语": "zh",
	"spanish": "es", "spanisch": "es", "spanische": "es", "испанский": "es", "西班牙语": "es",
	"french": "fr", "französisch": "fr", "französische": "fr", "французский": "fr", "法语": "fr",
	"italian": "it", "italienisch": "it", "итальянский": "it", "意大利语": "it",
	"portuguese": "pt", "portugiesisch": "pt", "португальский": "pt", "葡萄牙语": "pt",
	"japanese": "ja", "japanisch": "ja", "японский": "ja", "日语": "ja",
	"korean": "ko", "koreanisch": "ko", "корейский": "ko", "韩语": "ko",
}

// IsSupported reports whether code is in the supported set.
func IsSupported(code string) bool {
	for _, c := range Supported {
		if c == code {
			return true
		}
	}
	return false
}

// LanguageName returns the English display name for code, or the upper-cased
// code when unknown.
func LanguageName(code string) string {
	if n, ok := names[code]; ok {
		return n
	}
	return strings.ToUpper(code)
}

// CodeForName resolves a language name or code to a supported code.
func CodeForName(name string) (string, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if code, ok := nameToCode[n]; ok {
		return code, true
	}
	if IsSupported(n) {
		return n, true
	}
	return "", false
}

// Normalize maps raw detector output to a supported code. Full names go
// through the lookup table first, then the first two letters are tried.
func Normalize(raw, fallback string) string {
	cleaned := strings.ToLower(strings.TrimFunc(strings.TrimSpace(raw), func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	}))
	if cleaned == "" {
		return fallback
	}
	if code, ok := nameToCode[cleaned]; ok {
		return code
	}

	runes := []rune(cleaned)
	if len(runes) > 2 {
		runes = runes[:2]
	}
	if code := string(runes); IsSupported(code) {
		return code
	}
	return fallback
}

// Resolver implements ports.LanguageResolver on top of an LLM completion
// service. Every failure degrades to the default language or the original
// text.
type Resolver struct {
	llm             ports.LLMClient
	defaultLanguage string
	log             *zap.Logger
}

func NewResolver(llm ports.LLMClient, defaultLanguage string, log *zap.Logger) *Resolver {
	if !IsSupported(defaultLanguage) {
		defaultLanguage = DefaultLanguage
	}
	return &Resolver{
		llm:             llm,
		defaultLanguage: defaultLanguage,
		log:             log,
	}
}

// Default returns the configured default language code.
func (r *Resolver) Default() string {
	return r.defaultLanguage
}

func (r *Resolver) DetectLanguage(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" || r.llm == nil {
		return r.defaultLanguage
	}

	prompt := fmt.Sprintf(`Detect the language of this text and return only the ISO 639-1 language code (e.g., "ru", "de", "en", "zh", "es", "fr").

Text: """%s"""

Answer only the 2-letter language code:`, text)

	out, err := r.llm.Complete(ctx, prompt, 0, 10)
	if err != nil {
		r.log.Warn("Language detection failed, using default",
			zap.String("default", r.defaultLanguage),
			zap.Error(err),
		)
		return r.defaultLanguage
	}
	return Normalize(out, r.defaultLanguage)
}

func (r *Resolver) Translate(ctx context.Context, text, targetLang, sourceLangHint string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if r.llm == nil {
		return text
	}

	target := LanguageName(targetLang)
	hint := ""
	if sourceLangHint != "" {
		hint = " from " + LanguageName(sourceLangHint)
	}
	prompt := fmt.Sprintf(`Translate the following text to %s%s.
Keep proper names, email addresses, phone numbers, and technical terms unchanged.
Maintain the original tone and formality level.

Text: """%s"""

Translation:`, target, hint, text)

	out, err := r.llm.Complete(ctx, prompt, 0.3, 500)
	if err != nil {
		r.log.Warn("Translation failed, returning original text",
			zap.String("target", targetLang),
			zap.Error(err),
		)
		return text
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return text
	}
	return out
}
