package services

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	slugPattern     = regexp.MustCompile(`[^a-z0-9]+`)
	filenamePattern = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
)

// Slugify converts a human-readable name into a storage-safe slug.
func Slugify(value string) string {
	slug := strings.ToLower(strings.TrimSpace(value))
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// KeyGenerator builds durable storage keys. Randomness is injected so key
// shapes stay unit-testable without real uploads.
type KeyGenerator struct {
	NewID func() string
}

func NewKeyGenerator() *KeyGenerator {
	return &KeyGenerator{NewID: uuid.NewString}
}

// PortfolioImageKey groups one portfolio's uploads under a slug prefix and
// disambiguates repeated uploads of the same file with a random id:
// portfolios/<slug>/<slug>-<id><ext>
func (g *KeyGenerator) PortfolioImageKey(title, originalName string) string {
	base := Slugify(title)
	if base == "" {
		base = "portfolio"
	}
	ext := strings.ToLower(filepath.Ext(originalName))
	return "portfolios/" + base + "/" + base + "-" + g.NewID() + ext
}

// IconKey keeps the sanitized original filename for readability:
// <id>-<sanitized original>
func (g *KeyGenerator) IconKey(originalName string) string {
	sanitized := strings.ToLower(filenamePattern.ReplaceAllString(originalName, "-"))
	return g.NewID() + "-" + sanitized
}
