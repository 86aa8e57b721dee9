// internal/service/template_service.go
package service

import (
	"strings"

	"github.com/mkamau/callflow-backend/internal/model"
	"github.com/mkamau/callflow-backend/internal/workflow"
)

func RenderTemplate(template string, data map[string]string) string {
	result := template
	for k, v := range data {
		result = strings.ReplaceAll(result, "{"+k+"}", v)
	}
	return result
}

// renderWorkflowEmail fills an email step's template with contact fields.
// A step saved without a subject falls back to a follow-up line.
func renderWorkflowEmail(step *workflow.ActionStep, campaign *model.Campaign, contact model.Contact) (subject, html string) {
	tmpl := step.Email
	if tmpl == nil {
		tmpl = &workflow.EmailTemplate{}
	}

	data := map[string]string{
		"contact_first": contact.FirstName,
		"contact_last":  contact.LastName,
		"contact_email": contact.Email,
		"contact_phone": contact.Phone,
	}

	subject = strings.TrimSpace(RenderTemplate(tmpl.Subject, data))
	if subject == "" {
		subject = "Follow-up from " + campaign.Name
	}
	html = RenderTemplate(tmpl.HTML, data)
	if strings.TrimSpace(html) == "" {
		html = "<p>No email template has been configured for this action.</p>"
	}
	return subject, html
}
