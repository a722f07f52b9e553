package infra

import (
	"bytes"
	"fmt"
	"net/smtp"
	"text/template"

	"github.com/Karthikx21/Alagarcater-sub000/internal/config"
	"github.com/Karthikx21/Alagarcater-sub000/internal/dto"

	"github.com/jordan-wright/email"
)

var receiptTmpl = template.Must(template.New("receipt").Parse(`Dear {{.Job.CustomerName}},

We have received your payment. Thank you.

  Order:          {{.Job.OrderID}}
  Payment:        {{.Job.PaymentID}}{{if .Job.ReceiptNumber}} (receipt {{.Job.ReceiptNumber}}){{end}}
  Date:           {{.Job.PaymentDate}}
  Amount:         {{.Job.Amount}} ({{.Job.Method}})

  Order total:    {{.Job.Total}}
  Paid so far:    {{.Job.AmountPaid}}
  Balance due:    {{.Job.AmountDue}}

{{.Business}}
`))

// Mailer wraps SMTP configuration for sending plain-text payment receipts.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	from     string
	business string
	send     func(e *email.Email, addr string, auth smtp.Auth) error
}

func NewMailer(cfg *config.Config) *Mailer {
	from := cfg.MailFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		from:     from,
		business: cfg.BusinessName,
		send:     func(e *email.Email, addr string, auth smtp.Auth) error { return e.Send(addr, auth) },
	}
}

// Configured reports whether an SMTP host was provided.
func (m *Mailer) Configured() bool { return m.host != "" }

// BuildPaymentReceipt renders the receipt email without sending it.
func (m *Mailer) BuildPaymentReceipt(job dto.PaymentReceiptJob) (*email.Email, error) {
	var body bytes.Buffer
	if err := receiptTmpl.Execute(&body, struct {
		Job      dto.PaymentReceiptJob
		Business string
	}{job, m.business}); err != nil {
		return nil, fmt.Errorf("mailer: render receipt: %w", err)
	}
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{job.ToEmail}
	e.Subject = fmt.Sprintf("%s: payment of %s received", m.business, job.Amount)
	e.Text = body.Bytes()
	return e, nil
}

// SendPaymentReceipt sends the receipt for one payment to the customer.
func (m *Mailer) SendPaymentReceipt(job dto.PaymentReceiptJob) error {
	e, err := m.BuildPaymentReceipt(job)
	if err != nil {
		return err
	}
	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return m.send(e, m.addr, auth)
}
