package email

import (
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TemplateManager implements TemplateRenderer. It ships with built-in
// templates for the auth flows; LoadTemplates can override them from
// disk.
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

const (
	TemplateVerificationCode = "verification_code"
	TemplateVerificationLink = "verification_link"
	TemplatePasswordReset    = "password_reset"
)

var builtinTemplates = map[string]string{
	TemplateVerificationCode: `<html><body>
<p>Hi{{if .UserName}} {{.UserName}}{{end}},</p>
<p>Your verification code is:</p>
<p style="font-size:24px;font-weight:bold;letter-spacing:4px">{{.Code}}</p>
<p>The code expires in {{.TTLMinutes}} minutes. If you did not request it, ignore this message.</p>
<p>— {{.CompanyName}}</p>
</body></html>`,

	TemplateVerificationLink: `<html><body>
<p>Hi{{if .UserName}} {{.UserName}}{{end}},</p>
<p>Confirm your email address by following the link below:</p>
<p><a href="{{.ActionURL}}">{{.ActionText}}</a></p>
<p>If you did not create an account, ignore this message.</p>
<p>— {{.CompanyName}}</p>
</body></html>`,

	TemplatePasswordReset: `<html><body>
<p>Hi{{if .UserName}} {{.UserName}}{{end}},</p>
<p>We received a request to reset your password:</p>
<p><a href="{{.ActionURL}}">{{.ActionText}}</a></p>
<p>If you did not request a reset, ignore this message and your password stays unchanged.</p>
<p>— {{.CompanyName}}</p>
</body></html>`,
}

func NewTemplateManager() (*TemplateManager, error) {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}

	for name, body := range builtinTemplates {
		if err := tm.AddTemplate(name, body); err != nil {
			return nil, fmt.Errorf("failed to parse builtin template %s: %w", name, err)
		}
	}

	return tm, nil
}

func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()

	return nil
}

// LoadTemplates walks dirPath and registers every .html file under the
// file's base name, overriding any builtin of the same name.
func (tm *TemplateManager) LoadTemplates(dirPath string) error {
	return filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", path, err)
		}

		templateName := strings.TrimSuffix(filepath.Base(path), ".html")
		if err := tm.AddTemplate(templateName, string(content)); err != nil {
			return fmt.Errorf("failed to add template %s: %w", templateName, err)
		}

		return nil
	})
}

// TemplateNames returns the registered template names.
func (tm *TemplateManager) TemplateNames() []string {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()

	names := make([]string, 0, len(tm.templates))
	for name := range tm.templates {
		names = append(names, name)
	}

	return names
}
