// Package mailer sends transactional email over SMTP.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strconv"
	"text/template"

	"github.com/dmitrijs2005/jobportal/internal/logging"
	"github.com/dmitrijs2005/jobportal/internal/server/config"
)

// Acceptance carries what the "application accepted" email needs.
type Acceptance struct {
	To            string
	ApplicantName string
	JobTitle      string
	CompanyName   string
}

type Mailer interface {
	SendApplicationAccepted(ctx context.Context, a Acceptance) error
}

// sendMail is a seam for tests.
var sendMail = smtp.SendMail

type SMTPMailer struct {
	cfg    config.SMTPConfig
	logger logging.Logger
}

// New returns an SMTP mailer, or a no-op one when no host is configured.
func New(cfg config.SMTPConfig, logger logging.Logger) Mailer {
	logger = logger.With("module", "mailer")
	if cfg.Host == "" || cfg.From == "" {
		logger.Info(context.Background(), "smtp not configured, email disabled")
		return NopMailer{}
	}
	return &SMTPMailer{cfg: cfg, logger: logger}
}

func (m *SMTPMailer) SendApplicationAccepted(ctx context.Context, a Acceptance) error {
	msg, err := renderAcceptance(m.cfg.From, a)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}

	addr := m.cfg.Host + ":" + strconv.Itoa(m.cfg.Port)
	if err := sendMail(addr, auth, m.cfg.From, []string{a.To}, msg); err != nil {
		m.logger.Error(ctx, "send acceptance email failed", "to", a.To, "error", err)
		return fmt.Errorf("send mail: %w", err)
	}
	m.logger.Info(ctx, "acceptance email sent", "to", a.To, "job", a.JobTitle)
	return nil
}

type NopMailer struct{}

func (NopMailer) SendApplicationAccepted(context.Context, Acceptance) error { return nil }

var acceptanceText = template.Must(template.New("text").Parse(`Dear {{.Name}},

We are pleased to inform you that your application has been ACCEPTED!

Job Details:
- Position: {{.JobTitle}}
- Company: {{.CompanyName}}

You will be contacted shortly with further details about the next steps in the hiring process.

Best regards,
{{.CompanyName}} Hiring Team

---
This is an automated message. Please do not reply to this email.
JobPortal - Connecting Talent with Opportunity
`))

var acceptanceHTML = htmltemplate.Must(htmltemplate.New("html").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto;">
<h1 style="background-color: #4CAF50; color: white; padding: 20px; text-align: center;">Application Accepted!</h1>
<p>Dear {{.Name}},</p>
<p>We are pleased to inform you that your application has been <strong>accepted</strong>!</p>
<div style="border-left: 4px solid #4CAF50; padding: 15px;">
<p><strong>Position:</strong> {{.JobTitle}}</p>
<p><strong>Company:</strong> {{.CompanyName}}</p>
</div>
<p>You will be contacted shortly with further details about the next steps in the hiring process.</p>
<p>Best regards,<br>{{.CompanyName}} Hiring Team</p>
<p style="font-size: 12px; color: #666;">This is an automated message. Please do not reply to this email.</p>
</body>
</html>
`))

// renderAcceptance builds a multipart/alternative RFC 5322 message.
func renderAcceptance(from string, a Acceptance) ([]byte, error) {
	data := struct {
		Name        string
		JobTitle    string
		CompanyName string
	}{a.ApplicantName, a.JobTitle, a.CompanyName}
	if data.Name == "" {
		data.Name = "Applicant"
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/plain; charset=UTF-8"}})
	if err != nil {
		return nil, err
	}
	if err := acceptanceText.Execute(part, data); err != nil {
		return nil, err
	}

	part, err = mw.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/html; charset=UTF-8"}})
	if err != nil {
		return nil, err
	}
	if err := acceptanceHTML.Execute(part, data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", a.To)
	fmt.Fprintf(&msg, "Subject: Congratulations! Your application for %s has been accepted\r\n", a.JobTitle)
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", mw.Boundary())
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}
