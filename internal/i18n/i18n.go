// Package i18n selects between the site's English and Bangla content and
// translates the fixed interface strings.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

//go:embed locales
var localesFS embed.FS

// Supported language codes. The first one is the default.
const (
	English = "en"
	Bangla  = "bn"
)

// SupportedLanguages lists the site languages.
var SupportedLanguages = []string{English, Bangla}

type message struct {
	ID          string `json:"id"`
	Translation string `json:"translation"`
}

type messageFile struct {
	Language string    `json:"language"`
	Messages []message `json:"messages"`
}

// Catalog holds the interface strings of every supported language.
type Catalog struct {
	mu           sync.RWMutex
	translations map[string]map[string]string
	matcher      language.Matcher
	supported    []language.Tag
}

var (
	catalog  *Catalog
	initOnce sync.Once
	initErr  error
)

// Init loads the embedded catalogs. It is safe to call more than once.
func Init(logger *slog.Logger) error {
	initOnce.Do(func() {
		c := &Catalog{translations: make(map[string]map[string]string)}
		for _, code := range SupportedLanguages {
			c.supported = append(c.supported, language.MustParse(code))
			if err := c.load(code); err != nil {
				initErr = fmt.Errorf("loading %s messages: %w", code, err)
				return
			}
		}
		c.matcher = language.NewMatcher(c.supported)
		catalog = c
		if logger != nil {
			logger.Info("i18n initialized", "languages", SupportedLanguages)
		}
	})
	return initErr
}

func (c *Catalog) load(code string) error {
	data, err := localesFS.ReadFile("locales/" + code + "/messages.json")
	if err != nil {
		return err
	}
	var f messageFile
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	m := make(map[string]string, len(f.Messages))
	for _, msg := range f.Messages {
		m[msg.ID] = msg.Translation
	}
	c.mu.Lock()
	c.translations[code] = m
	c.mu.Unlock()
	return nil
}

// T returns the interface string key in lang, falling back to English and
// finally to the key itself.
func T(lang, key string) string {
	if catalog == nil {
		return key
	}
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()

	if s, ok := catalog.translations[lang][key]; ok {
		return s
	}
	if s, ok := catalog.translations[English][key]; ok {
		return s
	}
	return key
}

// Match picks the site language. An explicit choice (query parameter or
// cookie) wins when supported; otherwise the Accept-Language header is
// matched against the supported languages.
func Match(explicit, acceptLanguage string) string {
	if IsSupported(explicit) {
		return strings.ToLower(explicit)
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return English
	}

	supported := []language.Tag{language.English, language.Bengali}
	matcher := language.NewMatcher(supported)
	if catalog != nil {
		matcher = catalog.matcher
		supported = catalog.supported
	}

	_, idx, conf := matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(supported) {
		return English
	}
	return SupportedLanguages[idx]
}

// IsSupported reports whether code is a site language.
func IsSupported(code string) bool {
	code = strings.ToLower(code)
	for _, s := range SupportedLanguages {
		if s == code {
			return true
		}
	}
	return false
}

// Pick returns the text for lang. Bangla falls back to English when the
// Bangla text is empty, and the other way round.
func Pick(lang, en, bn string) string {
	if lang == Bangla {
		if bn != "" {
			return bn
		}
		return en
	}
	if en != "" {
		return en
	}
	return bn
}
