// Copyright (c) 2026 The power-control authors.
// SPDX-License-Identifier: Apache-2.0

// Package notify delivers the rendered notification emails. Two real
// transports are supported: SMTP over implicit TLS (the path the original
// deployments use, with an X-SES-CONFIGURATION-SET header so SES picks up
// the configuration set) and the SES v2 API. When sending is disabled the
// log-only mailer records what would have gone out.
package notify

import (
	"context"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/wneessen/go-mail"

	"github.com/power-control/power-control/internal/config"
	"github.com/power-control/power-control/internal/log"
)

// Header carrying the SES configuration set on SMTP-delivered mail.
const sesConfigurationSetHeader = "X-SES-CONFIGURATION-SET"

// Message is one email to deliver. The body is HTML.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Mailer delivers messages. A returned error means the recipient was not
// notified; callers decide whether that fails the run.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NewMailer selects the transport for the given settings. sesClient may be
// nil unless the ses transport is configured.
func NewMailer(settings *config.Settings, sesClient SendEmailAPI) (Mailer, error) {
	if !settings.SendEmail {
		return &LogMailer{}, nil
	}

	switch settings.EmailTransport {
	case "ses":
		if sesClient == nil {
			return nil, fmt.Errorf("ses transport selected but no SES client available")
		}
		return &SESMailer{
			Client:           sesClient,
			ConfigurationSet: settings.SESConfigurationSet,
		}, nil
	case "", "smtp":
		if settings.SMTPHost == "" {
			return nil, fmt.Errorf("smtp transport selected but SMTP_HOST is not set")
		}
		return &SMTPMailer{
			Host:             settings.SMTPHost,
			Username:         settings.SMTPUsername,
			Password:         settings.SMTPPassword,
			ConfigurationSet: settings.SESConfigurationSet,
		}, nil
	default:
		return nil, fmt.Errorf("unknown email transport %q", settings.EmailTransport)
	}
}

// LogMailer logs the message instead of sending it. Used when SEND_EMAIL is
// off, which is the default.
type LogMailer struct{}

// Send implements Mailer.
func (m *LogMailer) Send(_ context.Context, msg Message) error {
	log.Warnf("Not sending email to %s\n%s", msg.To, msg.Body)
	return nil
}

// SMTPMailer delivers over SMTP with implicit TLS and LOGIN auth.
type SMTPMailer struct {
	Host             string
	Username         string
	Password         string
	ConfigurationSet string
}

// Send implements Mailer.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	log.Warnf("Sending email to %s", msg.To)

	message := mail.NewMsg()
	if err := message.From(msg.From); err != nil {
		return fmt.Errorf("invalid from address %q: %w", msg.From, err)
	}
	if err := message.To(msg.To); err != nil {
		return fmt.Errorf("invalid recipient address %q: %w", msg.To, err)
	}
	message.Subject(msg.Subject)
	message.SetBodyString(mail.TypeTextHTML, msg.Body)
	if m.ConfigurationSet != "" {
		message.SetGenHeader(mail.Header(sesConfigurationSetHeader), m.ConfigurationSet)
	}

	client, err := mail.NewClient(m.Host,
		mail.WithSSLPort(false),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(m.Username),
		mail.WithPassword(m.Password),
	)
	if err != nil {
		return fmt.Errorf("failed to create smtp client for %s: %w", m.Host, err)
	}

	if err := client.DialAndSendWithContext(ctx, message); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}
	return nil
}

// SendEmailAPI is the slice of the SES v2 client the SESMailer needs.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESMailer delivers through the SES v2 API.
type SESMailer struct {
	Client           SendEmailAPI
	ConfigurationSet string
}

// Send implements Mailer.
func (m *SESMailer) Send(ctx context.Context, msg Message) error {
	log.Warnf("Sending email to %s", msg.To)

	input := &sesv2.SendEmailInput{
		FromEmailAddress: awsv2.String(msg.From),
		Destination: &sestypes.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &sestypes.EmailContent{
			Simple: &sestypes.Message{
				Subject: &sestypes.Content{Data: awsv2.String(msg.Subject)},
				Body: &sestypes.Body{
					Html: &sestypes.Content{Data: awsv2.String(msg.Body)},
				},
			},
		},
	}
	if m.ConfigurationSet != "" {
		input.ConfigurationSetName = awsv2.String(m.ConfigurationSet)
	}

	if _, err := m.Client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}
	return nil
}
