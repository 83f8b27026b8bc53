package utils

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type EmailData struct {
	Name             string
	Message          string
	Code             string
	ExpiresInMinutes int
	LogoURL          string
}

// Mailer delivers templated HTML email.
type Mailer interface {
	SendEmail(emailTo, emailSubject string, data EmailData, templateName string) error
}

type SMTPMailer struct {
	From     string
	Password string
	Host     string
	// Addr is host:port of the SMTP server.
	Addr string
}

func RenderEmail(templateName string, data EmailData) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return "", fmt.Errorf("template execution error: %w", err)
	}
	return body.String(), nil
}

func (m SMTPMailer) SendEmail(emailTo, emailSubject string, data EmailData, templateName string) error {
	body, err := RenderEmail(templateName, data)
	if err != nil {
		return err
	}

	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		m.From,
		emailTo,
		emailSubject,
		body,
	)

	auth := smtp.PlainAuth("", m.From, m.Password, m.Host)
	if err := smtp.SendMail(m.Addr, auth, m.From, []string{emailTo}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
