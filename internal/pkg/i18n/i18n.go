package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

type Translations map[string]string

var (
	locales = make(map[string]Translations)
	mu      sync.RWMutex
)

// LoadTranslations reads locales/<locale>/notifications.yaml for every locale
// directory under localePath. Missing files are skipped so a partially
// translated locale still falls back to English per key.
func LoadTranslations(localePath string) error {
	mu.Lock()
	defer mu.Unlock()

	entries, err := os.ReadDir(localePath)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		locale := entry.Name()
		filePath := filepath.Join(localePath, locale, "notifications.yaml")

		data, err := os.ReadFile(filePath)
		if err != nil {
			continue
		}

		var config struct {
			Notifications Translations `yaml:"NOTIFICATIONS"`
		}

		if err := yaml.Unmarshal(data, &config); err != nil {
			return fmt.Errorf("failed to parse %s: %w", filePath, err)
		}

		locales[locale] = config.Notifications
	}

	return nil
}

// Translate resolves key in the given locale, falling back to English and
// finally to the key itself. Placeholders of the form {name} are substituted
// from args.
func Translate(locale, key string, args map[string]string) string {
	mu.RLock()
	defer mu.RUnlock()

	msg := key
	if trans, ok := locales[locale]; ok {
		if val, ok := trans[key]; ok {
			msg = val
		} else if locale != "en" {
			if en, ok := locales["en"]; ok {
				if val, ok := en[key]; ok {
					msg = val
				}
			}
		}
	} else if en, ok := locales["en"]; ok {
		if val, ok := en[key]; ok {
			msg = val
		}
	}

	for name, value := range args {
		msg = strings.ReplaceAll(msg, "{"+name+"}", value)
	}
	return msg
}
