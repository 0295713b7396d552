// internal/domain/user/entity.go
package user

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role is the authorization role of an account.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// User represents a customer or admin account.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;not null;size:255" json:"email"`
	PasswordHash string `gorm:"not null;size:255" json:"-"`
	FirstName    string `gorm:"not null;size:100" json:"first_name"`
	LastName     string `gorm:"not null;size:100" json:"last_name"`
	Phone        string `gorm:"size:30" json:"phone,omitempty"`
	Role         Role   `gorm:"not null;size:20;default:customer" json:"role"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`

	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Addresses []Address `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"addresses,omitempty"`
}

// Address is a shipping or billing address owned by a user. At most one
// address per user carries the default flag; the flip is transactional.
type Address struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UserID     uint   `gorm:"not null;index" json:"user_id"`
	Label      string `gorm:"size:50" json:"label,omitempty"` // e.g. "home", "office"
	FirstName  string `gorm:"not null;size:100" json:"first_name"`
	LastName   string `gorm:"not null;size:100" json:"last_name"`
	Line1      string `gorm:"not null;size:255" json:"line1"`
	Line2      string `gorm:"size:255" json:"line2,omitempty"`
	City       string `gorm:"not null;size:100" json:"city"`
	State      string `gorm:"size:100" json:"state,omitempty"`
	PostalCode string `gorm:"not null;size:20" json:"postal_code"`
	Country    string `gorm:"not null;size:2" json:"country"` // ISO 3166-1 alpha-2
	Phone      string `gorm:"size:30" json:"phone,omitempty"`
	IsDefault  bool   `gorm:"default:false" json:"is_default"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides
func (User) TableName() string    { return "users" }
func (Address) TableName() string { return "addresses" }

// FullName returns first and last name joined.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsAdmin reports whether the account carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Format renders the address as a multi-line postal string for invoices and
// shipping labels.
func (a *Address) Format() string {
	lines := []string{
		strings.TrimSpace(a.FirstName + " " + a.LastName),
		a.Line1,
	}
	if a.Line2 != "" {
		lines = append(lines, a.Line2)
	}
	cityLine := a.City
	if a.State != "" {
		cityLine += ", " + a.State
	}
	cityLine += " " + a.PostalCode
	lines = append(lines, cityLine, a.Country)
	return strings.Join(lines, "\n")
}
