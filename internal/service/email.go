package service

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"agrimarket-backend/internal/domain"
	"agrimarket-backend/internal/logger"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// MailSender is the part of the SendGrid client the email service uses
type MailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

var digestHTML = template.Must(template.New("digest").Parse(`
<html>
	<body>
		<h2>Weekly earnings</h2>
		<p>Hello <strong>{{.Name}}</strong>,</p>
		<p>Revenue this week: <strong>₹{{.Week}}</strong></p>
		<p>Revenue this month: ₹{{.Month}}</p>
		<p>Net earnings to date: ₹{{.Net}}</p>
		<p>{{.PendingRequests}} pending requests, {{.ActiveRentals}} active rentals</p>
	</body>
</html>
`))

type digestView struct {
	Name            string
	Week            string
	Month           string
	Net             string
	PendingRequests int
	ActiveRentals   int
}

type emailService struct {
	client MailSender
	from   *mail.Email
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return NewEmailServiceWithSender(sendgrid.NewSendClient(apiKey), fromEmail, fromName)
}

func NewEmailServiceWithSender(client MailSender, fromEmail, fromName string) EmailService {
	return &emailService{
		client: client,
		from:   mail.NewEmail(fromName, fromEmail),
	}
}

func (s *emailService) SendEarningsDigest(ctx context.Context, to domain.User, dashboard *Dashboard) error {
	if to.Email == "" {
		return fmt.Errorf("user %d has no email address", to.ID)
	}

	subject, plain, html, err := digestContent(to, dashboard)
	if err != nil {
		return err
	}
	message := mail.NewSingleEmail(s.from, subject, mail.NewEmail(to.DisplayName(), to.Email), plain, html)

	logger.ExternalServiceCall("sendgrid", "SendEarningsDigest", "userID", to.ID)
	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		logger.ExternalServiceResult("sendgrid", "SendEarningsDigest", err, "userID", to.ID)
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		err := fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult("sendgrid", "SendEarningsDigest", err, "userID", to.ID)
		return err
	}

	logger.ExternalServiceResult("sendgrid", "SendEarningsDigest", nil, "userID", to.ID)
	return nil
}

func digestContent(to domain.User, d *Dashboard) (subject, plain, html string, err error) {
	s := d.Summary
	subject = fmt.Sprintf("Your earnings this week: ₹%s", s.Revenue.Week.StringFixed(2))

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", to.DisplayName())
	fmt.Fprintf(&b, "Revenue this week: ₹%s\n", s.Revenue.Week.StringFixed(2))
	fmt.Fprintf(&b, "Revenue this month: ₹%s\n", s.Revenue.Month.StringFixed(2))
	fmt.Fprintf(&b, "Net earnings to date: ₹%s\n", s.NetEarnings.StringFixed(2))
	fmt.Fprintf(&b, "Pending requests: %d\n", s.PendingRequests)
	fmt.Fprintf(&b, "Active rentals: %d\n", s.ActiveRentals)
	if len(s.TopAssets) > 0 {
		b.WriteString("\nTop performers:\n")
		for i, a := range s.TopAssets {
			fmt.Fprintf(&b, "%d. %s: ₹%s\n", i+1, a.Name, a.TotalRevenue.StringFixed(2))
		}
	}
	b.WriteString("\nBest regards,\nThe Agrimarket Team")
	plain = b.String()

	var h strings.Builder
	if err := digestHTML.Execute(&h, digestView{
		Name:            to.DisplayName(),
		Week:            s.Revenue.Week.StringFixed(2),
		Month:           s.Revenue.Month.StringFixed(2),
		Net:             s.NetEarnings.StringFixed(2),
		PendingRequests: s.PendingRequests,
		ActiveRentals:   s.ActiveRentals,
	}); err != nil {
		return "", "", "", fmt.Errorf("failed to render digest: %w", err)
	}
	return subject, plain, h.String(), nil
}
