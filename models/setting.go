package models

type Setting struct {
	ID           int    `gorm:"primaryKey" json:"id"`
	SiteName     string `gorm:"size:100;default:'Reward System'" json:"site_name"`
	ClosedSignup bool   `gorm:"not null;default:false" json:"closed_signup"`
	Maintenance  bool   `gorm:"not null;default:false" json:"maintenance"`
}

func (Setting) TableName() string {
	return "settings"
}
