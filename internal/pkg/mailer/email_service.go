package mailer

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

// CourseNotice describes a purchase event sent to the course creator.
type CourseNotice struct {
	CreatorName string
	BuyerName   string
	BuyerEmail  string
	CourseTitle string
	Amount      string
	PaymentId   string
}

type IEmailService interface {
	SendEnrollmentNotice(toEmail string, n CourseNotice) error
	SendPendingTransferNotice(toEmail string, n CourseNotice) error
}

// Sender is the part of gomail.Dialer the service uses.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	sender      Sender
	senderEmail string
	senderName  string
	clientURL   string
}

func NewEmailService(host string, port int, username, password, senderName, clientURL string) IEmailService {
	return NewEmailServiceWithSender(gomail.NewDialer(host, port, username, password), username, senderName, clientURL)
}

func NewEmailServiceWithSender(sender Sender, senderEmail, senderName, clientURL string) IEmailService {
	return &emailService{
		sender:      sender,
		senderEmail: senderEmail,
		senderName:  senderName,
		clientURL:   clientURL,
	}
}

func (s *emailService) newMessage(toEmail, subject, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	return m
}

func (s *emailService) SendEnrollmentNotice(toEmail string, n CourseNotice) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>New student in %s</h2>
			<p>Hi %s,</p>
			<p><strong>%s</strong> (%s) just enrolled in your course.</p>
			<p>Amount paid: <strong>%s</strong></p>
			<a href="%s/creator/payments" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">View payments</a>
		</div>
	`, html.EscapeString(n.CourseTitle), html.EscapeString(n.CreatorName), html.EscapeString(n.BuyerName),
		html.EscapeString(n.BuyerEmail), html.EscapeString(n.Amount), s.clientURL)

	return s.sender.DialAndSend(s.newMessage(toEmail, "New enrollment: "+n.CourseTitle, body))
}

func (s *emailService) SendPendingTransferNotice(toEmail string, n CourseNotice) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Bank transfer awaiting confirmation</h2>
			<p>Hi %s,</p>
			<p><strong>%s</strong> (%s) reports a bank transfer of <strong>%s</strong> for %s.</p>
			<p>Please check your account and confirm the payment.</p>
			<a href="%s/creator/payments?status=pending" style="background-color: #4CAF50; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Review payment</a>
			<p>Payment reference: %s</p>
		</div>
	`, html.EscapeString(n.CreatorName), html.EscapeString(n.BuyerName), html.EscapeString(n.BuyerEmail),
		html.EscapeString(n.Amount), html.EscapeString(n.CourseTitle), s.clientURL, html.EscapeString(n.PaymentId))

	return s.sender.DialAndSend(s.newMessage(toEmail, "Confirm bank transfer: "+n.CourseTitle, body))
}
