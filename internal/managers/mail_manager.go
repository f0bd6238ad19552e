// Package managers handles the sending of welcome emails using the Mailgun
// service and the Hermes package for email formatting.
package managers

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/matcornic/hermes/v2"
	log "github.com/sirupsen/logrus"
)

// MailMgr is an interface that outlines the contract for email management.
type MailMgr interface {
	SendWelcomeMail(email, name string) error
}

// MailManager is a concrete implementation of the MailMgr interface.
// It uses the Mailgun service for sending emails and the Hermes package for formatting emails.
type MailManager struct {
	Hermes  *hermes.Hermes
	Mailgun *mailgun.MailgunImpl
}

var from = "Dev Castle <team@devcastle.app>"
var environment string

// SendWelcomeMail sends a welcome email to a freshly registered user.
// Outside production the mail is skipped so local registrations stay silent.
func (mm *MailManager) SendWelcomeMail(email, name string) error {
	if environment != "production" {
		log.Info("Skipping welcome mail in development mode")
		return nil
	}

	mailBody := hermes.Email{
		Body: hermes.Body{
			Name: name,
			Intros: []string{
				"Welcome to Dev Castle! We're very excited to have you on board.",
				"Your account is ready to use. Set up your developer profile and start posting.",
			},
			Outros: []string{
				"If you have any questions, feel free to reach out to us at any time via team@devcastle.app.",
			},
		},
	}

	emailBody, err := mm.Hermes.GenerateHTML(mailBody)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(2*time.Second))
	defer cancel()

	message := mm.Mailgun.NewMessage(from, "Welcome to Dev Castle", "", email)
	message.SetHtml(emailBody)
	_, _, err = mm.Mailgun.Send(ctx, message)
	if err != nil {
		log.Warning("Error sending welcome mail: " + err.Error())
		return err
	}
	log.Debug("Welcome mail sent to ", email)

	return nil
}

// NewMailManager initializes a new MailManager instance with configured Mailgun and Hermes settings.
// It also checks the runtime environment to determine if emails should be sent.
func NewMailManager() MailMgr {
	log.Info("Initializing mail manager")
	environment = os.Getenv("ENVIRONMENT")

	if environment != "production" {
		log.Println("Running in development mode, email will not be sent to users")
	}

	apiKey := os.Getenv("MAILGUN_API_KEY")
	domain := os.Getenv("MAILGUN_DOMAIN")
	if domain == "" {
		domain = "mail.devcastle.app"
	}
	mailgunInstance := mailgun.NewMailgun(domain, apiKey)

	mm := &MailManager{
		Hermes: &hermes.Hermes{
			Theme:         new(hermes.Default),
			TextDirection: hermes.TDLeftToRight,
			Product: hermes.Product{
				Name:      "Dev Castle",
				Link:      fmt.Sprintf("https://%s/", "devcastle.app"),
				Copyright: "© Dev Castle",
			},
		},
		Mailgun: mailgunInstance,
	}
	log.Info("Initialized mail manager")
	return mm
}
