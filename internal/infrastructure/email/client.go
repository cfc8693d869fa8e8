// Package email sends lead notifications through Resend.
package email

import (
	"context"
	"fmt"

	"github.com/AtRiskMedia/praxis/internal/domain/lead"
	"github.com/AtRiskMedia/praxis/internal/domain/roi"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/email/templates"
	"github.com/resendlabs/resend-go"
)

// Notifier is told about every stored submission.
type Notifier interface {
	NotifyNewLead(ctx context.Context, s *lead.Submission) error
}

// sendFunc delivers one message; it wraps the Resend client so tests can replace it.
type sendFunc func(params *resend.SendEmailRequest) error

// ResendNotifier is the concrete implementation of Notifier using the Resend API.
type ResendNotifier struct {
	send         sendFunc
	from         string
	to           []string
	dashboardURL string
}

// NewResendNotifier creates a notifier sending from the given address to every recipient in to.
func NewResendNotifier(apiKey, from string, to []string, dashboardURL string) (*ResendNotifier, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY is required for lead notifications")
	}
	if len(to) == 0 {
		return nil, fmt.Errorf("LEAD_NOTIFY_TO is required for lead notifications")
	}
	client := resend.NewClient(apiKey)
	send := func(params *resend.SendEmailRequest) error {
		_, err := client.Emails.Send(params)
		return err
	}
	return &ResendNotifier{send: send, from: from, to: to, dashboardURL: dashboardURL}, nil
}

// NotifyNewLead composes and sends the notification email.
func (n *ResendNotifier) NotifyNewLead(_ context.Context, s *lead.Submission) error {
	props := templates.LeadEmailProps{
		ID:           s.ID,
		Name:         s.Name,
		Email:        s.Email,
		Message:      s.Message,
		DashboardURL: n.dashboardURL,
	}
	if s.Company != nil {
		props.Company = *s.Company
	}
	if snap := s.Context; snap != nil {
		props.Profession = snap.Profession
		props.DemosCompleted = snap.DemosCompleted
		if snap.WeeklyHours != nil {
			props.WeeklyHours = roi.FormatHours(*snap.WeeklyHours, "it")
		}
		if snap.EstimatedSavingsEur != nil {
			props.SavingsLabel = roi.FormatCurrency(*snap.EstimatedSavingsEur, "it")
		}
	}

	html, err := templates.RenderLeadEmail(props)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      n.to,
		Subject: fmt.Sprintf("Nuovo contatto: %s", s.Name),
		Html:    html,
		ReplyTo: s.Email,
	}
	if err := n.send(params); err != nil {
		return fmt.Errorf("failed to send lead notification via Resend: %w", err)
	}
	return nil
}

// NoopNotifier is used when notifications are not configured.
type NoopNotifier struct{}

func (NoopNotifier) NotifyNewLead(context.Context, *lead.Submission) error { return nil }
