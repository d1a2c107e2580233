package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fixedKeys(id string) *KeyGenerator {
	return &KeyGenerator{NewID: func() string { return id }}
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"My Project":        "my-project",
		"  Trim Me  ":       "trim-me",
		"C++ & Go!":         "c-go",
		"--already-slug--":  "already-slug",
		"ПРОЕКТ":            "",
		"mixed ПРОЕКТ 2024": "mixed-2024",
	}

	for input, want := range cases {
		assert.Equal(t, want, Slugify(input), "Slugify(%q)", input)
	}
}

func TestKeyGenerator_PortfolioImageKey(t *testing.T) {
	t.Parallel()

	keys := fixedKeys("abc123")

	assert.Equal(t,
		"portfolios/my-site/my-site-abc123.jpg",
		keys.PortfolioImageKey("My Site", "photo.JPG"),
	)

	// Titles that slugify to nothing fall back to a stable prefix
	assert.Equal(t,
		"portfolios/portfolio/portfolio-abc123.png",
		keys.PortfolioImageKey("***", "shot.png"),
	)
}

func TestKeyGenerator_IconKey(t *testing.T) {
	t.Parallel()

	keys := fixedKeys("abc123")

	assert.Equal(t, "abc123-go-logo.svg", keys.IconKey("Go Logo.svg"))
	assert.Equal(t, "abc123-icon_v2.png", keys.IconKey("icon_v2.png"))
}

func TestKeyGenerator_DistinctIDsDisambiguate(t *testing.T) {
	t.Parallel()

	seq := 0
	keys := &KeyGenerator{NewID: func() string {
		seq++
		if seq == 1 {
			return "first"
		}
		return "second"
	}}

	a := keys.PortfolioImageKey("Site", "same.jpg")
	b := keys.PortfolioImageKey("Site", "same.jpg")
	assert.NotEqual(t, a, b)
}
