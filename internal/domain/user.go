package domain

import "time"

// User roles
const (
	RoleOwner = "owner"
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User is an admin-app account scoped to one tenant
type User struct {
	ID           string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	TenantID     string    `gorm:"column:tenant_id;index;size:36" json:"tenant_id"`
	Email        string    `gorm:"column:email;uniqueIndex;size:255" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;size:100" json:"-"`
	Name         string    `gorm:"column:name;size:200" json:"name"`
	Role         string    `gorm:"column:role;size:16;default:staff" json:"role"`
	Active       bool      `gorm:"column:active;default:true" json:"active"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// LoginRequest for email/password authentication
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries issued tokens
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TenantID     string `json:"tenant_id"`
	Role         string `json:"role"`
}
