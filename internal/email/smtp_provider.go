package email

import (
	"fmt"
	"strconv"

	"fixer_backend/internal/config"

	"gopkg.in/gomail.v2"
)

// SMTPProvider delivers mail over SMTP via gomail.
type SMTPProvider struct {
	cfg      *config.EmailConfig
	dialer   *gomail.Dialer
	renderer TemplateRenderer

	fromAddr    string
	companyName string
	codeTTL     int
}

func NewSMTPProvider(cfg *config.EmailConfig, renderer TemplateRenderer, codeTTLMinutes int) *SMTPProvider {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	dialer.SSL = cfg.UseSSL

	return &SMTPProvider{
		cfg:         cfg,
		dialer:      dialer,
		renderer:    renderer,
		fromAddr:    fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail),
		companyName: cfg.FromName,
		codeTTL:     codeTTLMinutes,
	}
}

func (p *SMTPProvider) Send(email *Email) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	m := gomail.NewMessage()
	from := email.From
	if from == "" {
		from = p.fromAddr
	}
	m.SetHeader("From", from)
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)

	if email.HTMLBody != "" {
		m.SetBody("text/html", email.HTMLBody)
		if email.Body != "" {
			m.AddAlternative("text/plain", email.Body)
		}
	} else {
		m.SetBody("text/plain", email.Body)
	}

	if err := p.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (p *SMTPProvider) SendTemplate(to []string, subject string, templateName string, data TemplateData) error {
	if p.renderer == nil {
		return fmt.Errorf("template renderer is not configured")
	}

	if _, ok := data["CompanyName"]; !ok {
		data["CompanyName"] = p.companyName
	}

	htmlBody, err := p.renderer.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	return p.Send(&Email{
		To:       to,
		Subject:  subject,
		HTMLBody: htmlBody,
	})
}

func (p *SMTPProvider) SendVerificationCode(to string, code string) error {
	return p.SendTemplate([]string{to}, "Your verification code", TemplateVerificationCode, TemplateData{
		"Code":       code,
		"TTLMinutes": strconv.Itoa(p.codeTTL),
	})
}

func (p *SMTPProvider) SendVerificationLink(to string, link string) error {
	return p.SendTemplate([]string{to}, "Confirm your email", TemplateVerificationLink, TemplateData{
		"ActionURL":  link,
		"ActionText": "Confirm Email",
	})
}

func (p *SMTPProvider) SendPasswordReset(to string, link string) error {
	return p.SendTemplate([]string{to}, "Reset your password", TemplatePasswordReset, TemplateData{
		"ActionURL":  link,
		"ActionText": "Reset Password",
	})
}

func (p *SMTPProvider) Validate() error {
	if p.cfg.SMTPHost == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if p.cfg.SMTPPort <= 0 || p.cfg.SMTPPort > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", p.cfg.SMTPPort)
	}
	if p.cfg.FromEmail == "" {
		return fmt.Errorf("from address is required")
	}
	return nil
}

// Close is a no-op: gomail dials per message.
func (p *SMTPProvider) Close() error {
	return nil
}
