// Copyright (c) 2026 The power-control authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package notify

import (
	"context"
	"errors"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"

	"github.com/power-control/power-control/internal/config"
)

type fakeSES struct {
	inputs []*sesv2.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(_ context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{}, nil
}

func TestNewMailer_SendDisabled(t *testing.T) {
	m, err := NewMailer(&config.Settings{SendEmail: false}, nil)
	assert.NoError(t, err)
	assert.IsType(t, &LogMailer{}, m)
}

func TestNewMailer_SMTP(t *testing.T) {
	settings := &config.Settings{
		SendEmail:           true,
		EmailTransport:      "smtp",
		SMTPHost:            "mail.example.com",
		SMTPUsername:        "u",
		SMTPPassword:        "p",
		SESConfigurationSet: "power-control",
	}

	m, err := NewMailer(settings, nil)
	assert.NoError(t, err)
	smtp, ok := m.(*SMTPMailer)
	assert.True(t, ok)
	assert.Equal(t, "mail.example.com", smtp.Host)
	assert.Equal(t, "power-control", smtp.ConfigurationSet)
}

func TestNewMailer_SMTPMissingHost(t *testing.T) {
	_, err := NewMailer(&config.Settings{SendEmail: true, EmailTransport: "smtp"}, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP_HOST")
}

func TestNewMailer_SES(t *testing.T) {
	m, err := NewMailer(&config.Settings{
		SendEmail:      true,
		EmailTransport: "ses",
	}, &fakeSES{})
	assert.NoError(t, err)
	assert.IsType(t, &SESMailer{}, m)
}

func TestNewMailer_SESMissingClient(t *testing.T) {
	_, err := NewMailer(&config.Settings{SendEmail: true, EmailTransport: "ses"}, nil)
	assert.Error(t, err)
}

func TestNewMailer_UnknownTransport(t *testing.T) {
	_, err := NewMailer(&config.Settings{SendEmail: true, EmailTransport: "carrier-pigeon"}, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}

func TestLogMailer_AlwaysSucceeds(t *testing.T) {
	m := &LogMailer{}
	err := m.Send(context.Background(), Message{To: "alice@example.com", Body: "<p>hi</p>"})
	assert.NoError(t, err)
}

func TestSESMailer_Send(t *testing.T) {
	ses := &fakeSES{}
	m := &SESMailer{Client: ses, ConfigurationSet: "power-control"}

	err := m.Send(context.Background(), Message{
		From:    "power-control@example.com",
		To:      "alice@example.com",
		Subject: "Automatically stopping your environments",
		Body:    "<p>body</p>",
	})
	assert.NoError(t, err)
	assert.Len(t, ses.inputs, 1)

	in := ses.inputs[0]
	assert.Equal(t, "power-control@example.com", awsv2.ToString(in.FromEmailAddress))
	assert.Equal(t, []string{"alice@example.com"}, in.Destination.ToAddresses)
	assert.Equal(t, "Automatically stopping your environments", awsv2.ToString(in.Content.Simple.Subject.Data))
	assert.Equal(t, "<p>body</p>", awsv2.ToString(in.Content.Simple.Body.Html.Data))
	assert.Equal(t, "power-control", awsv2.ToString(in.ConfigurationSetName))
}

func TestSESMailer_SendError(t *testing.T) {
	ses := &fakeSES{err: errors.New("throttled")}
	m := &SESMailer{Client: ses}

	err := m.Send(context.Background(), Message{From: "a@b.c", To: "d@e.f"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "d@e.f")
}

func TestSESMailer_NoConfigurationSet(t *testing.T) {
	ses := &fakeSES{}
	m := &SESMailer{Client: ses}

	err := m.Send(context.Background(), Message{From: "a@b.c", To: "d@e.f"})
	assert.NoError(t, err)
	assert.Nil(t, ses.inputs[0].ConfigurationSetName)
}

func TestSMTPMailer_InvalidAddresses(t *testing.T) {
	m := &SMTPMailer{Host: "mail.example.com"}

	err := m.Send(context.Background(), Message{From: "not an address", To: "alice@example.com"})
	assert.Error(t, err)

	err = m.Send(context.Background(), Message{From: "power-control@example.com", To: "also not"})
	assert.Error(t, err)
}
