package utils

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

var confirmationTemplate = template.Must(template.ParseFS(templateFS, "templates/order_confirmation.html"))

// SMTPSettings describes the relay used by Mailer.
type SMTPSettings struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends HTML mail through an SMTP relay with PLAIN auth.
type Mailer struct {
	settings SMTPSettings
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailer(settings SMTPSettings) *Mailer {
	return &Mailer{settings: settings, sendMail: smtp.SendMail}
}

// Send delivers one HTML message to every recipient.
func (m *Mailer) Send(to []string, subject, htmlBody string) error {
	if len(to) == 0 {
		return errors.New("no recipients")
	}
	if m.settings.Host == "" || m.settings.From == "" {
		return errors.New("smtp relay is not configured")
	}

	if strings.ContainsAny(subject, "\r\n") {
		return errors.New("subject contains a line break")
	}
	for _, rcpt := range to {
		if strings.ContainsAny(rcpt, "\r\n") {
			return errors.Errorf("recipient %q contains a line break", rcpt)
		}
	}

	addr := net.JoinHostPort(m.settings.Host, strconv.Itoa(m.settings.Port))
	auth := smtp.PlainAuth("", m.settings.Username, m.settings.Password, m.settings.Host)
	msg := BuildMessage(m.settings.From, to, subject, htmlBody)

	if err := m.sendMail(addr, auth, m.settings.From, to, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

var headerBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// BuildMessage assembles the RFC 5322 headers and HTML body. Line breaks in
// header values are folded into spaces and a non-ASCII subject is Q-encoded.
func BuildMessage(from string, to []string, subject, htmlBody string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", headerBreaks.Replace(from))
	fmt.Fprintf(&b, "To: %s\r\n", headerBreaks.Replace(strings.Join(to, ", ")))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", headerBreaks.Replace(subject)))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

type ConfirmationItem struct {
	Name     string
	Quantity int
	Price    string
}

type KeyValue struct {
	Key   string
	Value string
}

// OrderConfirmation is the data rendered into the confirmation email.
type OrderConfirmation struct {
	CustomerName    string
	ShippingAddress string
	TransactionID   string
	Status          string
	Items           []ConfirmationItem
	PromoCode       string
	PromoName       string
	ColorSelections []KeyValue
}

// RenderOrderConfirmation renders the HTML body of a confirmation email.
func RenderOrderConfirmation(data OrderConfirmation) (string, error) {
	var body bytes.Buffer
	if err := confirmationTemplate.Execute(&body, data); err != nil {
		return "", fmt.Errorf("template execution error: %w", err)
	}
	return body.String(), nil
}
