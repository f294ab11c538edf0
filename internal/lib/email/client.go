// Package email renders the embedded HTML templates and delivers them
// through Resend.
package email

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/deppfellow/patternhub/internal/config"
	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// sender is the part of the Resend API the client uses.
type sender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type Client struct {
	sender    sender
	from      string
	templates *template.Template
	logger    *zerolog.Logger
}

// NewClient builds a Resend-backed client. Templates are compiled here so a
// broken template fails startup instead of the first delivery.
func NewClient(cfg *config.Config, logger *zerolog.Logger) (*Client, error) {
	return newClient(resend.NewClient(cfg.Integration.ResendAPIKey).Emails, cfg.Integration.EmailFrom, logger)
}

func newClient(s sender, from string, logger *zerolog.Logger) (*Client, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &Client{
		sender:    s,
		from:      from,
		templates: tmpl,
		logger:    logger,
	}, nil
}

// Render executes templateName with data. Subject is exposed to the layout.
func (c *Client) Render(templateName Template, subject string, data map[string]any) (string, error) {
	vars := make(map[string]any, len(data)+1)
	for k, v := range data {
		vars[k] = v
	}
	vars["Subject"] = subject

	var body bytes.Buffer
	if err := c.templates.ExecuteTemplate(&body, string(templateName)+".html", vars); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", templateName)
	}
	return body.String(), nil
}

// SendEmail renders templateName and sends it to one recipient.
func (c *Client) SendEmail(to, subject string, templateName Template, data map[string]any) error {
	html, err := c.Render(templateName, subject, data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	resp, err := c.sender.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	if resp != nil {
		c.logger.Debug().
			Str("email_id", resp.Id).
			Str("template", string(templateName)).
			Msg("email accepted by provider")
	}

	return nil
}
