package email

import (
	"embed"
	"html/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pkg/errors"
)

// Template names an embedded HTML template under templates/.
type Template string

const (
	TemplateWelcome                Template = "welcome"
	TemplateWaitlistConfirmation   Template = "waitlist_confirmation"
	TemplateConsultingNotification Template = "consulting_notification"
	TemplateConsultingAck          Template = "consulting_ack"
)

// Templates lists every template the client can render.
var Templates = []Template{
	TemplateWelcome,
	TemplateWaitlistConfirmation,
	TemplateConsultingNotification,
	TemplateConsultingAck,
}

//go:embed templates/*.html
var templateFS embed.FS

// parseTemplates compiles all embedded templates once. Each file is
// addressable by "<name>.html" and shares the "layout" definitions.
func parseTemplates() (*template.Template, error) {
	tmpl, err := template.New("email").
		Funcs(sprig.FuncMap()).
		ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse embedded email templates")
	}
	return tmpl, nil
}
