package models

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleViewer UserRole = "viewer"
)

// User is a statically configured dashboard account.
type User struct {
	Username     string   `yaml:"username" json:"username"`
	Password     string   `yaml:"password" json:"-"`
	PasswordHash string   `yaml:"password_hash" json:"-"`
	Role         UserRole `yaml:"role" json:"role"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
