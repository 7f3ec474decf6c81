package service

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"text/template"

	"github.com/fournil-next/internal/config"
	"github.com/fournil-next/internal/logger"
	"github.com/fournil-next/internal/models"
)

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`Bonjour {{.Order.CustomerFirstname}} {{.Order.CustomerName}},

Votre commande {{.Order.OrderNumber}} est enregistrée.

Retrait : {{.PickupDate}}{{if .ShopName}} — {{.ShopName}}{{end}}

{{range .Order.Lines}}  {{.Quantity}} x {{.ProductName}} ({{.Subtotal}} EUR)
{{end}}
Total : {{.Order.TotalAmount}} EUR

Merci de votre confiance.
`))

var reminderTemplate = template.Must(template.New("reminder").Parse(`Bonjour {{.Order.CustomerFirstname}} {{.Order.CustomerName}},

Petit rappel : votre commande {{.Order.OrderNumber}} vous attend demain.

Retrait : {{.PickupDate}}{{if .ShopName}} — {{.ShopName}}{{end}}

A bientôt.
`))

type emailData struct {
	Order      *models.Order
	PickupDate string
	ShopName   string
}

// EmailService sends order notifications over SMTP. Disabled configuration
// turns every send into a logged no-op.
type EmailService struct {
	cfg config.EmailConfig
}

// NewEmailService creates the email service.
func NewEmailService(cfg config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Enabled reports whether sending is configured.
func (s *EmailService) Enabled() bool {
	return s != nil && s.cfg.Enabled && s.cfg.Host != ""
}

// SendOrderConfirmation emails the order recap to the customer.
func (s *EmailService) SendOrderConfirmation(order *models.Order) error {
	subject := fmt.Sprintf("Confirmation de commande %s", order.OrderNumber)
	return s.sendOrderMail(order, subject, confirmationTemplate)
}

// SendOrderReminder emails a day-before pickup reminder.
func (s *EmailService) SendOrderReminder(order *models.Order) error {
	subject := fmt.Sprintf("Rappel : retrait de votre commande %s", order.OrderNumber)
	return s.sendOrderMail(order, subject, reminderTemplate)
}

func (s *EmailService) sendOrderMail(order *models.Order, subject string, tpl *template.Template) error {
	if order.CustomerEmail == "" {
		return nil
	}
	if !s.Enabled() {
		logger.Infow("email disabled, skipping send",
			"order_number", order.OrderNumber,
			"subject", subject,
		)
		return nil
	}

	data := emailData{
		Order:      order,
		PickupDate: order.PickupDate.Format("02/01/2006"),
	}
	if order.Shop != nil {
		data.ShopName = order.Shop.Name
	}
	var body bytes.Buffer
	if err := tpl.Execute(&body, data); err != nil {
		return err
	}
	return s.send(order.CustomerEmail, subject, body.String())
}

func (s *EmailService) send(to, subject, body string) error {
	from := s.cfg.From
	header := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n",
		s.cfg.FromName, from, to, subject)
	message := []byte(header + body)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	if !s.cfg.UseTLS {
		return smtp.SendMail(addr, auth, from, []string{to}, message)
	}

	// Explicit TLS on the SMTP submission port.
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.cfg.Host})
	if err != nil {
		return err
	}
	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Close()
	if err := client.Auth(auth); err != nil {
		return err
	}
	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	writer, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := writer.Write(message); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}
	return client.Quit()
}
