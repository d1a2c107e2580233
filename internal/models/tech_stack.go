package models

type IconKind string

const (
	IconKindImage IconKind = "image"
	IconKindSvg   IconKind = "svg"
)

// TechStack holds one technology entry. Source is interpreted by IconKind:
// a storage URL for "image", inline markup for "svg". The pair is written
// together by the service layer so the two never disagree.
type TechStack struct {
	BaseModel
	Name     string   `gorm:"not null;uniqueIndex" json:"name"`
	IconKind IconKind `gorm:"column:icon_kind;type:varchar(16);not null" json:"icon_kind"`
	Source   *string  `json:"source"`
}

func (TechStack) TableName() string {
	return "tech_stacks"
}
