package dto

import (
	"strings"
	"time"

	"portfolio_admin/internal/appErrors"
	"portfolio_admin/internal/models"
)

// Portfolio Request DTOs

type PortfolioInput struct {
	Title      string  `json:"title" form:"title"`
	Slug       *string `json:"slug" form:"slug"`
	Summary    *string `json:"summary" form:"summary"`
	Content    *string `json:"content" form:"content"`
	LinkDemo   *string `json:"link_demo" form:"link_demo"`
	LinkGithub *string `json:"link_github" form:"link_github"`
	Status     string  `json:"status" form:"status"`
	Featured   bool    `json:"featured" form:"featured"`
}

// Normalize trims string fields, maps empties to absent, and coerces
// unknown status values to draft. Pure, no I/O.
func (in PortfolioInput) Normalize() PortfolioInput {
	status := models.PortfolioStatusDraft
	if models.PortfolioStatus(in.Status) == models.PortfolioStatusPublished {
		status = models.PortfolioStatusPublished
	}

	return PortfolioInput{
		Title:      strings.TrimSpace(in.Title),
		Slug:       trimToNil(in.Slug),
		Summary:    trimToNil(in.Summary),
		Content:    trimToNil(in.Content),
		LinkDemo:   trimToNil(in.LinkDemo),
		LinkGithub: trimToNil(in.LinkGithub),
		Status:     string(status),
		Featured:   in.Featured,
	}
}

// Validate applies the local convenience gate; it is not a security
// boundary.
func (in PortfolioInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return appErrors.ValidationError("Title is required.")
	}
	switch models.PortfolioStatus(in.Status) {
	case models.PortfolioStatusDraft, models.PortfolioStatusPublished:
	default:
		return appErrors.ValidationError("Status must be draft or published.")
	}
	return nil
}

func trimToNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

type RemovedImage struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type CreatePortfolioOptions struct {
	Images       []*FileAttachment
	TechStackIDs []string
}

type UpdatePortfolioOptions struct {
	Images        []*FileAttachment
	TechStackIDs  []string
	RemovedImages []RemovedImage
}

// Portfolio Response DTOs

type PortfolioImageResponse struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	SortOrder int    `json:"sort_order"`
}

type PortfolioResponse struct {
	ID         string                   `json:"id"`
	Title      string                   `json:"title"`
	Slug       *string                  `json:"slug"`
	Summary    *string                  `json:"summary"`
	Content    *string                  `json:"content"`
	LinkDemo   *string                  `json:"link_demo"`
	LinkGithub *string                  `json:"link_github"`
	Status     string                   `json:"status"`
	Featured   bool                     `json:"featured"`
	Images     []PortfolioImageResponse `json:"images"`
	TechStacks []TechStackResponse      `json:"tech_stacks"`
	CreatedAt  time.Time                `json:"created_at"`
	UpdatedAt  time.Time                `json:"updated_at"`
}

func BuildPortfolioResponse(p *models.Portfolio) *PortfolioResponse {
	images := make([]PortfolioImageResponse, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, PortfolioImageResponse{
			ID:        img.ID,
			URL:       img.URL,
			SortOrder: img.SortOrder,
		})
	}

	stacks := make([]TechStackResponse, 0, len(p.TechStacks))
	for _, ts := range p.TechStacks {
		stacks = append(stacks, *BuildTechStackResponse(&ts))
	}

	return &PortfolioResponse{
		ID:         p.ID,
		Title:      p.Title,
		Slug:       p.Slug,
		Summary:    p.Summary,
		Content:    p.Content,
		LinkDemo:   p.LinkDemo,
		LinkGithub: p.LinkGithub,
		Status:     string(p.Status),
		Featured:   p.Featured,
		Images:     images,
		TechStacks: stacks,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
