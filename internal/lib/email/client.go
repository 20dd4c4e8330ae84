// Package email provides an email sending client.
//
// It uses Resend (resend-go) as the email provider and renders email bodies
// from HTML templates embedded in the binary.
package email

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/deppfellow/gym-sessions/internal/config"
	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Sender is the part of the Resend API the client uses.
type Sender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Client renders templates and sends them through a Sender.
type Client struct {
	sender Sender
	from   string
	logger *zerolog.Logger
}

// NewClient creates a Client backed by the Resend API.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	return NewClientWithSender(resend.NewClient(cfg.Integration.ResendAPIKey).Emails, cfg.Integration.EmailFrom, logger)
}

// NewClientWithSender creates a Client on an arbitrary Sender.
func NewClientWithSender(sender Sender, from string, logger *zerolog.Logger) *Client {
	return &Client{
		sender: sender,
		from:   from,
		logger: logger,
	}
}

// Render executes the named template with data.
func Render(templateName Template, data map[string]string) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, templateName.File(), data); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", templateName)
	}
	return body.String(), nil
}

// SendEmail renders templateName with data and sends it to a single
// recipient.
func (c *Client) SendEmail(to, subject string, templateName Template, data map[string]string) error {
	html, err := Render(templateName, data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	sent, err := c.sender.Send(params)
	if err != nil {
		return errors.Wrap(err, "failed to send email")
	}

	c.logger.Debug().
		Str("template", string(templateName)).
		Str("email_id", sent.Id).
		Msg("email accepted by provider")

	return nil
}
