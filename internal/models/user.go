package models

type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
)

type User struct {
	BaseModel
	Email        string   `gorm:"not null;uniqueIndex" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Role         UserRole `gorm:"type:varchar(16);not null;default:'admin'" json:"role"`
}
