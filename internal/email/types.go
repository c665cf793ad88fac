package email

// Email is an outbound message. HTMLBody wins over Body when both are
// set.
type Email struct {
	From     string
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// TemplateData feeds the HTML templates.
type TemplateData map[string]interface{}
