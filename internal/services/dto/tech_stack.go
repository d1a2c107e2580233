package dto

import (
	"strings"
	"time"

	"portfolio_admin/internal/appErrors"
	"portfolio_admin/internal/models"
)

// TechStack Request DTOs

type TechStackInput struct {
	Name     string  `json:"name" form:"name"`
	IconKind string  `json:"icon_kind" form:"icon_kind"`
	Source   *string `json:"source" form:"source"`
}

// Normalize trims the name and source and maps an empty source to absent.
func (in TechStackInput) Normalize() TechStackInput {
	return TechStackInput{
		Name:     strings.TrimSpace(in.Name),
		IconKind: strings.TrimSpace(in.IconKind),
		Source:   trimToNil(in.Source),
	}
}

func (in TechStackInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return appErrors.ValidationError("Stack name is required.")
	}
	switch models.IconKind(in.IconKind) {
	case models.IconKindImage, models.IconKindSvg:
		return nil
	}
	return appErrors.ValidationError("Icon kind must be image or svg.")
}

type CreateTechStackOptions struct {
	ImageFile *FileAttachment
	SvgCode   string
}

type UpdateTechStackOptions struct {
	ImageFile *FileAttachment
	SvgCode   string
	// PreviousSource marks the previously stored source so the engine can
	// release the old blob once the row update succeeds.
	PreviousSource *string
}

// TechStack Response DTOs

type TechStackResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IconKind  string    `json:"icon_kind"`
	Source    *string   `json:"source"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func BuildTechStackResponse(ts *models.TechStack) *TechStackResponse {
	return &TechStackResponse{
		ID:        ts.ID,
		Name:      ts.Name,
		IconKind:  string(ts.IconKind),
		Source:    ts.Source,
		CreatedAt: ts.CreatedAt,
		UpdatedAt: ts.UpdatedAt,
	}
}
