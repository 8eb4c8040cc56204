package models

import "time"

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Avatar    *string   `gorm:"type:varchar(255);null" json:"avatar,omitempty"`
	Points    uint      `gorm:"not null;default:0" json:"points"`
	IsStaff   bool      `gorm:"not null;default:false" json:"is_staff"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}

// CanApprove reports whether the user may review (approve/reject) tasks.
// Call sites depend on the capability rather than the staff flag so a richer
// role model can replace the flag without touching them.
func (u *User) CanApprove() bool {
	return u.IsStaff
}

// CanManageCatalog reports whether the user may create, edit or delete
// catalog applications.
func (u *User) CanManageCatalog() bool {
	return u.IsStaff
}
