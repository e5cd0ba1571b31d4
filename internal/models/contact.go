package models

// ContactSubmission is a popup/contact form entry together with the client
// details captured when it was posted.
type ContactSubmission struct {
	Base
	Name      string `gorm:"not null" json:"name"`
	Email     string `gorm:"not null" json:"email"`
	Phone     string `gorm:"not null" json:"phone"`
	Message   string `gorm:"type:text;not null" json:"message"`
	IPAddress string `json:"ipAddress"`
	UserAgent string `json:"userAgent"`
	Browser   string `json:"browser"`
	OS        string `json:"os"`
	Device    string `json:"device"`
}

func (ContactSubmission) TableName() string {
	return TableContactSubmissions
}
