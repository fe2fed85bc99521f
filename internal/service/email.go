package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"shipmarket-backend/internal/utils"
)

type emailService struct {
	apiKey   string
	from     string
	fromName string
}

func NewEmailService(apiKey, from, fromName string) EmailService {
	return &emailService{
		apiKey:   apiKey,
		from:     from,
		fromName: fromName,
	}
}

func (s *emailService) send(to, toName, subject, body string) error {
	from := mail.NewEmail(s.fromName, s.from)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendOfferReceivedNotification(ctx context.Context, renterEmail, renterName, shipName string, priceCents int32) error {
	subject := "New offer on your rental request"
	body := fmt.Sprintf("Hello %s,\n\nA partner offered the vessel %s for %s against your rental request. Log in to review and respond.", renterName, shipName, utils.FormatCents(priceCents))
	return s.send(renterEmail, renterName, subject, body)
}

func (s *emailService) SendOfferAcceptedNotification(ctx context.Context, partnerEmail, shipName string, priceCents int32) error {
	subject := "Your offer was accepted"
	body := fmt.Sprintf("Your offer of %s for %s has been accepted. The rental is now agreed.", utils.FormatCents(priceCents), shipName)
	return s.send(partnerEmail, "", subject, body)
}

func (s *emailService) SendOrderDiscontinuedNotification(ctx context.Context, renterEmail, renterName string, orderID int32) error {
	subject := "Your rental request was discontinued"
	body := fmt.Sprintf("Hello %s,\n\nYour rental request #%d received no agreement in time and has been discontinued. Feel free to post a new request.", renterName, orderID)
	return s.send(renterEmail, renterName, subject, body)
}
