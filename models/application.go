package models

import "time"

// Application categories. Stored as a MySQL enum, mirrored here for
// validation before the insert ever reaches the database.
const (
	CategorySocial       = "social"
	CategoryGame         = "game"
	CategoryProductivity = "productivity"
)

// GenericLogo is served when an application has neither a custom upload nor a
// default logo configured.
const GenericLogo = "static/images/default_app_logo.png"

type Application struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	LinkApp      string    `gorm:"size:255;uniqueIndex;not null" json:"link_app"`
	DownloadLink string    `gorm:"size:255;uniqueIndex;not null" json:"download_link"`
	Points       uint      `gorm:"not null" json:"points"`
	Category     string    `gorm:"type:enum('social','game','productivity');not null" json:"category"`
	DefaultLogo  *string   `gorm:"type:varchar(255);null" json:"default_logo,omitempty"`
	CustomLogo   *string   `gorm:"type:varchar(255);null" json:"custom_logo,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Application) TableName() string {
	return "applications"
}

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c string) bool {
	switch c {
	case CategorySocial, CategoryGame, CategoryProductivity:
		return true
	}
	return false
}

// Logo resolves the logo reference by priority: custom upload first, then the
// configured default, then the generic fallback. Each branch is explicit so a
// set-but-empty column never falls through by accident.
func (a *Application) Logo() string {
	if a.CustomLogo != nil && *a.CustomLogo != "" {
		return *a.CustomLogo
	}
	if a.DefaultLogo != nil && *a.DefaultLogo != "" {
		return *a.DefaultLogo
	}
	return GenericLogo
}

// HasCustomLogo reports whether Logo resolved to an uploaded object key that
// needs presigning before it is returned to a client.
func (a *Application) HasCustomLogo() bool {
	return a.CustomLogo != nil && *a.CustomLogo != ""
}
