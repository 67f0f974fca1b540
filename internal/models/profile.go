package models

// Profile holds per-user presentation data. Every non-admin user gets one
// when their account is provisioned.
type Profile struct {
	Base
	UserID string `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Bio    string `gorm:"size:150" json:"bio"`
	Avatar string `json:"avatar"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}
