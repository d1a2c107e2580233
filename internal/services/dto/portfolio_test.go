package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio_admin/internal/appErrors"
	"portfolio_admin/internal/models"
)

func strPtr(s string) *string { return &s }

func TestPortfolioInput_Normalize(t *testing.T) {
	t.Parallel()

	input := PortfolioInput{
		Title:    "  My Project  ",
		Slug:     strPtr("  my-project "),
		Summary:  strPtr("   "),
		Content:  nil,
		LinkDemo: strPtr("https://demo.example.com"),
		Status:   "published",
		Featured: true,
	}

	normalized := input.Normalize()

	assert.Equal(t, "My Project", normalized.Title)
	require.NotNil(t, normalized.Slug)
	assert.Equal(t, "my-project", *normalized.Slug)
	assert.Nil(t, normalized.Summary, "blank summary should become absent")
	assert.Nil(t, normalized.Content)
	assert.Equal(t, "published", normalized.Status)
	assert.True(t, normalized.Featured)
}

func TestPortfolioInput_Normalize_UnknownStatusBecomesDraft(t *testing.T) {
	t.Parallel()

	for _, status := range []string{"", "archived", "PUBLISHED", "Draft"} {
		normalized := PortfolioInput{Title: "x", Status: status}.Normalize()
		assert.Equal(t, string(models.PortfolioStatusDraft), normalized.Status,
			"status %q should coerce to draft", status)
	}
}

func TestPortfolioInput_Normalize_IsIdempotent(t *testing.T) {
	t.Parallel()

	input := PortfolioInput{
		Title:   " Site ",
		Summary: strPtr(" short "),
		Status:  "bogus",
	}

	once := input.Normalize()
	twice := once.Normalize()

	assert.Equal(t, once, twice)
}

func TestPortfolioInput_Validate(t *testing.T) {
	t.Parallel()

	t.Run("requires title", func(t *testing.T) {
		err := PortfolioInput{Title: "   ", Status: "draft"}.Validate()
		require.Error(t, err)

		var appErr *appErrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, appErrors.CodeValidationFailed, appErr.Code)
	})

	t.Run("rejects malformed status", func(t *testing.T) {
		err := PortfolioInput{Title: "Site", Status: "live"}.Validate()
		require.Error(t, err)
	})

	t.Run("accepts both known statuses", func(t *testing.T) {
		assert.NoError(t, PortfolioInput{Title: "Site", Status: "draft"}.Validate())
		assert.NoError(t, PortfolioInput{Title: "Site", Status: "published"}.Validate())
	})
}

func TestBuildPortfolioResponse(t *testing.T) {
	t.Parallel()

	p := &models.Portfolio{
		BaseModel: models.BaseModel{ID: "p-1"},
		Title:     "Site",
		Status:    models.PortfolioStatusPublished,
		Featured:  true,
		Images: []models.PortfolioImage{
			{BaseModel: models.BaseModel{ID: "img-1"}, PortfolioID: "p-1", URL: "/files/uploads/a.jpg", SortOrder: 0},
			{BaseModel: models.BaseModel{ID: "img-2"}, PortfolioID: "p-1", URL: "/files/uploads/b.jpg", SortOrder: 1},
		},
		TechStacks: []models.TechStack{
			{BaseModel: models.BaseModel{ID: "ts-1"}, Name: "Go", IconKind: models.IconKindSvg},
		},
	}

	resp := BuildPortfolioResponse(p)

	assert.Equal(t, "p-1", resp.ID)
	assert.Equal(t, "published", resp.Status)
	require.Len(t, resp.Images, 2)
	assert.Equal(t, 0, resp.Images[0].SortOrder)
	assert.Equal(t, 1, resp.Images[1].SortOrder)
	require.Len(t, resp.TechStacks, 1)
	assert.Equal(t, "Go", resp.TechStacks[0].Name)
}
