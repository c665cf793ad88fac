package app

import "fixer_backend/internal/email"

// MockEmailProvider is used for tests and local development where no
// SMTP server is reachable.
type MockEmailProvider struct{}

func (m *MockEmailProvider) Send(emailMsg *email.Email) error { return nil }
func (m *MockEmailProvider) SendTemplate(to []string, subject string, templateName string, data email.TemplateData) error {
	return nil
}
func (m *MockEmailProvider) SendVerificationCode(to string, code string) error { return nil }
func (m *MockEmailProvider) SendVerificationLink(to string, link string) error { return nil }
func (m *MockEmailProvider) SendPasswordReset(to string, link string) error    { return nil }
func (m *MockEmailProvider) Validate() error                                   { return nil }
func (m *MockEmailProvider) Close() error                                      { return nil }
