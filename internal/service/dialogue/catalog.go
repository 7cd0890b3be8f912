package dialogue

import (
	_ "embed"
	"fmt"
	"math/rand"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:embed locales.yaml
var localesYAML []byte

const fallbackLocale = "en"

type locale struct {
	Confirm   []string          `yaml:"confirm"`
	Cancel    []string          `yaml:"cancel"`
	Labels    map[string]string `yaml:"labels"`
	Messages  map[string]string `yaml:"messages"`
	SmallTalk []string          `yaml:"small_talk"`
	Unknown   []string          `yaml:"unknown"`
}

// Catalog holds localized replies and the confirm/cancel vocabulary.
type Catalog struct {
	locales map[string]locale
	confirm map[string]struct{}
	cancel  map[string]struct{}
}

// LoadCatalog parses the embedded catalogue.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(localesYAML)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var locales map[string]locale
	if err := yaml.Unmarshal(data, &locales); err != nil {
		return nil, fmt.Errorf("parse locales: %w", err)
	}
	if _, ok := locales[fallbackLocale]; !ok {
		return nil, fmt.Errorf("locales: missing %q section", fallbackLocale)
	}

	c := &Catalog{
		locales: locales,
		confirm: make(map[string]struct{}),
		cancel:  make(map[string]struct{}),
	}
	for _, l := range locales {
		for _, w := range l.Confirm {
			c.confirm[normalizeReply(w)] = struct{}{}
		}
		for _, w := range l.Cancel {
			c.cancel[normalizeReply(w)] = struct{}{}
		}
	}
	return c, nil
}

// normalizeReply trims, lowercases and strips trailing punctuation so that
// "Yes!" and "да." match their vocabulary entries.
func normalizeReply(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	return strings.TrimRightFunc(t, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	})
}

// IsConfirm reports whether text is an affirmative reply in any language.
func (c *Catalog) IsConfirm(text string) bool {
	_, ok := c.confirm[normalizeReply(text)]
	return ok
}

// IsCancel reports whether text is a negative reply in any language.
func (c *Catalog) IsCancel(text string) bool {
	_, ok := c.cancel[normalizeReply(text)]
	return ok
}

// Text formats the message key in lang, falling back to English.
func (c *Catalog) Text(lang, key string, args ...any) string {
	msg, ok := c.locales[lang].Messages[key]
	if !ok {
		msg = c.locales[fallbackLocale].Messages[key]
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// Label translates a slot field name.
func (c *Catalog) Label(lang, field string) string {
	if l, ok := c.locales[lang].Labels[field]; ok {
		return l
	}
	return c.locales[fallbackLocale].Labels[field]
}

func (c *Catalog) SmallTalk(lang string) string {
	return c.pick(lang, func(l locale) []string { return l.SmallTalk })
}

func (c *Catalog) Unknown(lang string) string {
	return c.pick(lang, func(l locale) []string { return l.Unknown })
}

func (c *Catalog) pick(lang string, list func(locale) []string) string {
	variants := list(c.locales[lang])
	if len(variants) == 0 {
		variants = list(c.locales[fallbackLocale])
	}
	if len(variants) == 0 {
		return ""
	}
	return variants[rand.Intn(len(variants))]
}
