package infra

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
)

// Mailer sends transactional mail (receipts) over SMTP.
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	from     string
}

func NewMailer(host string, port int, user, password, shopName string) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		from:     fmt.Sprintf("%s <%s>", shopName, user),
	}
}

// Configured reports whether SMTP credentials were provided; without them
// sending is silently skipped.
func (m *Mailer) Configured() bool { return m.host != "" && m.user != "" }

// SendReceipt emails the receipt PDF at pdfPath to the given address.
func (m *Mailer) SendReceipt(to, invoiceNo, pdfPath string) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Your receipt %s", invoiceNo)
	e.Text = []byte(fmt.Sprintf("Thank you for your purchase.\n\nYour receipt %s is attached.", invoiceNo))
	if _, err := e.AttachFile(pdfPath); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return e.Send(addr, auth)
}
