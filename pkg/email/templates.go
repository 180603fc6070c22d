package email

import (
	"bytes"
	"html/template"
	"log"
)

// TemplateManager holds the parsed email templates.
type TemplateManager struct {
	RiderWelcomeTmpl   *template.Template
	CaptainWelcomeTmpl *template.Template
}

// NewTemplateManager parses all email templates at startup.
func NewTemplateManager() (*TemplateManager, error) {
	riderTmpl, err := template.New("riderWelcome").Parse(riderWelcomeTemplate)
	if err != nil {
		return nil, err
	}

	captainTmpl, err := template.New("captainWelcome").Parse(captainWelcomeTemplate)
	if err != nil {
		return nil, err
	}

	log.Println("Email templates parsed successfully.")
	return &TemplateManager{
		RiderWelcomeTmpl:   riderTmpl,
		CaptainWelcomeTmpl: captainTmpl,
	}, nil
}

// TemplateData holds the dynamic data for an email template.
type TemplateData struct {
	Name string
	Link string
}

// GenerateRiderWelcomeHTML executes the rider welcome template.
func (tm *TemplateManager) GenerateRiderWelcomeHTML(data TemplateData) (string, error) {
	var body bytes.Buffer
	if err := tm.RiderWelcomeTmpl.Execute(&body, data); err != nil {
		return "", err
	}
	return body.String(), nil
}

// GenerateCaptainWelcomeHTML executes the captain welcome template.
func (tm *TemplateManager) GenerateCaptainWelcomeHTML(data TemplateData) (string, error) {
	var body bytes.Buffer
	if err := tm.CaptainWelcomeTmpl.Execute(&body, data); err != nil {
		return "", err
	}
	return body.String(), nil
}

// --- HTML Template Definitions ---

const riderWelcomeTemplate = `
<!DOCTYPE html>
<html>
<head>
	<title>Welcome Aboard</title>
</head>
<body style="font-family: Arial, sans-serif;">
	<h2>Welcome, {{.Name}}!</h2>
	<p>Your rider account is ready. Open the app, set your pickup and destination, and request your first ride.</p>
	<p><a href="{{.Link}}">Go to the app</a></p>
	<p>If you did not sign up for this account, please ignore this email.</p>
</body>
</html>
`

const captainWelcomeTemplate = `
<!DOCTYPE html>
<html>
<head>
	<title>Welcome, Captain</title>
</head>
<body style="font-family: Arial, sans-serif;">
	<h2>Welcome, Captain {{.Name}}!</h2>
	<p>Your account has been created. Once your vehicle details are verified you can go online and start accepting rides.</p>
	<p><a href="{{.Link}}">Open the captain dashboard</a></p>
	<p>If you did not register as a captain, please ignore this email.</p>
</body>
</html>
`
