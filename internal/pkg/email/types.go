// internal/pkg/email/types.go
package email

// EmailType represents the type of email being sent
type EmailType string

const (
	EmailTypePasswordReset EmailType = "password_reset"
	EmailTypeWelcome       EmailType = "welcome"
)

// Email represents an email message
type Email struct {
	To          []string  `json:"to"`
	Subject     string    `json:"subject"`
	HTMLContent string    `json:"html_content"`
	Type        EmailType `json:"type"`
}

// templateData contains common data for all email templates
type templateData struct {
	SiteName  string
	SiteURL   string
	UserName  string
	UserEmail string
	Year      int
}

// passwordResetData contains data for the password reset email
type passwordResetData struct {
	templateData
	ResetURL  string
	ExpiresIn string
}

// welcomeData contains data for the welcome email
type welcomeData struct {
	templateData
	LoginURL string
}
