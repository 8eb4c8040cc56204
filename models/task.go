package models

import "time"

// Task statuses. A task is Pending from submission until a staff member
// reviews it; review moves it to Approved or Rejected.
const (
	TaskPending  = "Pending"
	TaskApproved = "Approved"
	TaskRejected = "Rejected"
)

// Task is a user's claim of having completed an application, evidenced by an
// uploaded screenshot. One task per (user, application) pair.
type Task struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_user_app" json:"user_id"`
	ApplicationID uint      `gorm:"not null;uniqueIndex:idx_user_app" json:"application_id"`
	Screenshot    string    `gorm:"size:255;not null" json:"screenshot"`
	Status        string    `gorm:"type:enum('Pending','Approved','Rejected');default:'Pending'" json:"status"`
	CreatedAt     time.Time `gorm:"<-:create" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	User        *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Application *Application `gorm:"foreignKey:ApplicationID" json:"application,omitempty"`
}

func (Task) TableName() string {
	return "tasks"
}

// ValidTaskStatus reports whether s is one of the three task statuses.
func ValidTaskStatus(s string) bool {
	switch s {
	case TaskPending, TaskApproved, TaskRejected:
		return true
	}
	return false
}
