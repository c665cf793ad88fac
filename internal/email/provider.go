package email

// Provider sends transactional mail. Implementations must be safe for
// concurrent use.
type Provider interface {
	// Send delivers a prepared message.
	Send(email *Email) error

	// SendTemplate renders a named template and delivers it.
	SendTemplate(to []string, subject string, templateName string, data TemplateData) error

	// SendVerificationCode delivers a short one-time code.
	SendVerificationCode(to string, code string) error

	// SendVerificationLink delivers a signed verification link.
	SendVerificationLink(to string, link string) error

	// SendPasswordReset delivers a password reset link.
	SendPasswordReset(to string, link string) error

	// Validate checks the provider configuration.
	Validate() error

	// Close releases provider resources.
	Close() error
}

// TemplateRenderer renders named templates to HTML.
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
	AddTemplate(name string, template string) error
	LoadTemplates(dirPath string) error
}
