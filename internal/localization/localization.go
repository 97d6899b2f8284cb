// Package localization provides the bot's user-facing strings. Catalogs
// are JSON files embedded at build time, one per language code.
package localization

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed *.json
var catalogFS embed.FS

// Localizer maps language codes to translation catalogs.
type Localizer struct {
	translations map[string]map[string]string
}

// NewLocalizer loads every embedded catalog.
func NewLocalizer() (*Localizer, error) {
	l := &Localizer{translations: make(map[string]map[string]string)}

	entries, err := catalogFS.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded catalogs: %w", err)
	}
	for _, entry := range entries {
		lang := strings.TrimSuffix(entry.Name(), ".json")
		data, err := catalogFS.ReadFile(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog %s: %w", entry.Name(), err)
		}
		var translations map[string]string
		if err := json.Unmarshal(data, &translations); err != nil {
			return nil, fmt.Errorf("failed to parse catalog %s: %w", entry.Name(), err)
		}
		l.translations[lang] = translations
	}
	return l, nil
}

// GetString returns the localized string for a key, falling back to
// English and finally to the key itself.
func (l *Localizer) GetString(lang, key string) string {
	if catalog, ok := l.translations[lang]; ok {
		if value, ok := catalog[key]; ok {
			return value
		}
	}
	if lang != "en" {
		if catalog, ok := l.translations["en"]; ok {
			if value, ok := catalog[key]; ok {
				return value
			}
		}
	}
	return key
}
