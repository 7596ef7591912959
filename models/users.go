package models

import "time"

// User roles
const (
	RoleStudent   = "student"
	RoleAlumni    = "alumni"
	RoleRecruiter = "recruiter"
	RoleAdmin     = "admin"
)

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Email    string `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password string `gorm:"type:varchar(255);not null" json:"-"`
	Role     string `gorm:"type:varchar(20);not null;default:'student'" json:"role"`

	// Profile fields. Education, Experience and Skills hold JSON documents
	// managed by the client; the server stores them opaquely.
	Headline   string `gorm:"type:varchar(255)" json:"headline"`
	Education  string `gorm:"type:text" json:"education"`
	Experience string `gorm:"type:text" json:"experience"`
	Skills     string `gorm:"type:text" json:"skills"`

	// Scheduling preferences, e.g. "Asia/Dubai" and "09:00-17:00".
	Timezone     string `gorm:"type:varchar(64)" json:"timezone"`
	WorkingHours string `gorm:"type:varchar(16)" json:"working_hours"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleAlumni, RoleRecruiter, RoleAdmin:
		return true
	}
	return false
}
