package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTechStackInput_Normalize(t *testing.T) {
	t.Parallel()

	input := TechStackInput{
		Name:     "  PostgreSQL ",
		IconKind: " image ",
		Source:   strPtr("  "),
	}

	normalized := input.Normalize()

	assert.Equal(t, "PostgreSQL", normalized.Name)
	assert.Equal(t, "image", normalized.IconKind)
	assert.Nil(t, normalized.Source)
}

func TestTechStackInput_Validate(t *testing.T) {
	t.Parallel()

	t.Run("requires name", func(t *testing.T) {
		err := TechStackInput{Name: "", IconKind: "svg"}.Validate()
		require.Error(t, err)
	})

	t.Run("rejects unknown icon kind", func(t *testing.T) {
		err := TechStackInput{Name: "Go", IconKind: "font"}.Validate()
		require.Error(t, err)
	})

	t.Run("accepts image and svg kinds", func(t *testing.T) {
		assert.NoError(t, TechStackInput{Name: "Go", IconKind: "image"}.Validate())
		assert.NoError(t, TechStackInput{Name: "Go", IconKind: "svg"}.Validate())
	})
}
