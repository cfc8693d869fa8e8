// Package templates renders the notification emails.
package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

// LeadEmailProps is the data shown to the team when a lead arrives.
type LeadEmailProps struct {
	ID             string
	Name           string
	Email          string
	Company        string
	Message        string
	Profession     string
	WeeklyHours    string
	SavingsLabel   string
	DemosCompleted []string
	DashboardURL   string
}

var leadTemplate = template.Must(template.New("lead").Parse(`<!doctype html>
<html lang="it">
  <head><meta charset="UTF-8"><title>Nuovo contatto</title></head>
  <body style="font-family: Helvetica, sans-serif; font-size: 16px; line-height: 1.4; background-color: #f4f5f6; margin: 0; padding: 24px;">
    <table role="presentation" style="max-width: 600px; margin: 0 auto; background: #ffffff; border: 1px solid #eaebed; border-radius: 12px; padding: 24px;" width="100%">
      <tr><td>
        <h1 style="font-size: 20px; margin: 0 0 16px;">Nuovo contatto da {{.Name}}</h1>
        <p style="margin: 0 0 8px;"><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
        {{if .Company}}<p style="margin: 0 0 8px;"><strong>Studio:</strong> {{.Company}}</p>{{end}}
        {{if .Profession}}<p style="margin: 0 0 8px;"><strong>Professione:</strong> {{.Profession}}</p>{{end}}
        {{if .WeeklyHours}}<p style="margin: 0 0 8px;"><strong>Ore amministrative/settimana:</strong> {{.WeeklyHours}}</p>{{end}}
        {{if .SavingsLabel}}<p style="margin: 0 0 8px;"><strong>Risparmio stimato:</strong> {{.SavingsLabel}} / mese</p>{{end}}
        {{if .DemosCompleted}}<p style="margin: 0 0 8px;"><strong>Demo completate:</strong> {{range $i, $d := .DemosCompleted}}{{if $i}}, {{end}}{{$d}}{{end}}</p>{{end}}
        <blockquote style="margin: 16px 0; padding: 12px 16px; background: #f4f5f6; border-radius: 8px; white-space: pre-wrap;">{{.Message}}</blockquote>
        {{if .DashboardURL}}<p><a href="{{.DashboardURL}}" style="display: inline-block; background: #0867ec; color: #ffffff; padding: 10px 18px; border-radius: 6px; text-decoration: none;">Apri la dashboard</a></p>{{end}}
        <p style="color: #9a9ea6; font-size: 12px; margin-top: 24px;">Riferimento {{.ID}}</p>
      </td></tr>
    </table>
  </body>
</html>`))

// RenderLeadEmail renders the HTML body of a new-lead notification.
func RenderLeadEmail(props LeadEmailProps) (string, error) {
	var buf bytes.Buffer
	if err := leadTemplate.Execute(&buf, props); err != nil {
		return "", fmt.Errorf("failed to render lead email: %w", err)
	}
	return buf.String(), nil
}
