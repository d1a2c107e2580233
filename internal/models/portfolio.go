package models

type PortfolioStatus string

const (
	PortfolioStatusDraft     PortfolioStatus = "draft"
	PortfolioStatusPublished PortfolioStatus = "published"
)

type Portfolio struct {
	BaseModel
	Title      string          `gorm:"not null" json:"title"`
	Slug       *string         `json:"slug"`
	Summary    *string         `json:"summary"`
	Content    *string         `json:"content"`
	LinkDemo   *string         `json:"link_demo"`
	LinkGithub *string         `json:"link_github"`
	Status     PortfolioStatus `gorm:"type:varchar(16);not null;default:'draft'" json:"status"`
	Featured   bool            `gorm:"default:false" json:"featured"`

	// Relations
	Images     []PortfolioImage `gorm:"foreignKey:PortfolioID;constraint:OnDelete:CASCADE" json:"images"`
	TechStacks []TechStack      `gorm:"many2many:portfolio_tech_stack;joinForeignKey:PortfolioID;joinReferences:TechStackID" json:"tech_stacks"`
}

// PortfolioImage is owned 1:N by a portfolio. SortOrder is the display
// order; it is preserved and extendable but not required to be gap-free.
type PortfolioImage struct {
	BaseModel
	PortfolioID string `gorm:"type:uuid;not null;index" json:"portfolio_id"`
	URL         string `gorm:"not null" json:"url"`
	SortOrder   int    `gorm:"default:0" json:"sort_order"`
}

// PortfolioTechStack is the many-to-many join row. Join rows cascade with
// the portfolio row delete; tech stacks are shared and never cascade.
type PortfolioTechStack struct {
	PortfolioID string `gorm:"type:uuid;primaryKey"`
	TechStackID string `gorm:"type:uuid;primaryKey"`
}

func (PortfolioTechStack) TableName() string {
	return "portfolio_tech_stack"
}
