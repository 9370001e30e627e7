// Package catalog implements the message catalog: keyed, localized
// reply variants with {var}-style interpolation.
package catalog

import (
	"embed"
	"fmt"
	"math/rand/v2"
	"path"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

type localeFile struct {
	Messages map[string][]string `yaml:"messages"`
}

// Catalog resolves reply message variants for one locale.
type Catalog struct {
	tag      language.Tag
	messages map[string][]string
}

// New loads the catalog best matching the requested locale. Unknown
// locales fall back to English, which ships embedded.
func New(locale string) (*Catalog, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}

	var tags []language.Tag
	var files []string
	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), ".yaml")
		tag, err := language.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("locale file %s: %w", entry.Name(), err)
		}
		tags = append(tags, tag)
		files = append(files, entry.Name())
	}

	matcher := language.NewMatcher(tags)
	_, idx := language.MatchStrings(matcher, locale)

	data, err := localeFS.ReadFile(path.Join("locales", files[idx]))
	if err != nil {
		return nil, fmt.Errorf("read locale %s: %w", files[idx], err)
	}

	var file localeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse locale %s: %w", files[idx], err)
	}

	return &Catalog{tag: tags[idx], messages: file.Messages}, nil
}

// Tag reports the locale the catalog resolved to.
func (c *Catalog) Tag() language.Tag {
	return c.tag
}

// Any returns a randomly-chosen variant for key, interpolated with vars.
// Unknown keys yield the empty string.
func (c *Catalog) Any(key string, vars map[string]string) string {
	variants := c.messages[key]
	if len(variants) == 0 {
		return ""
	}
	return interpolate(variants[rand.IntN(len(variants))], vars)
}

// Get returns the variant at index, or fallback when out of range.
func (c *Catalog) Get(key string, index int, fallback string) string {
	variants := c.messages[key]
	if index < 0 || index >= len(variants) {
		return fallback
	}
	return variants[index]
}

// Count reports how many variants exist for key.
func (c *Catalog) Count(key string) int {
	return len(c.messages[key])
}

func interpolate(s string, vars map[string]string) string {
	for k, v := range vars {
		s = strings.ReplaceAll(s, "{"+k+"}", v)
	}
	return s
}
