package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/resend/resend-go/v3"

	"medcollab/internal/config"
)

type Service interface {
	SendWelcomeEmail(ctx context.Context, toEmail, fullName, role string) error
	SendEmailVerification(ctx context.Context, toEmail, fullName, verificationToken string) error
	SendPasswordResetEmail(ctx context.Context, toEmail, fullName, resetToken string) error
	SendAccessRequestEmail(ctx context.Context, toEmail, patientName, doctorName, recordID string) error
	SendAccessDecisionEmail(ctx context.Context, toEmail, doctorName, patientName, recordID string, granted bool) error
	SendCaseInviteEmail(ctx context.Context, toEmail, doctorName, inviterName, caseTitle string) error
	SendNewCommentEmail(ctx context.Context, toEmail, recipientName, authorName, caseTitle string) error
}

type service struct {
	client       *resend.Client
	config       *config.Config
	templatePath string
}

func NewService(cfg *config.Config) Service {
	client := resend.NewClient(cfg.ResendAPIKey)
	templatePath := "internal/service/templates/email"
	return &service{
		client:       client,
		config:       cfg,
		templatePath: templatePath,
	}
}

func (s *service) sendEmail(toEmail, subject, templateName string, data interface{}) error {
	tmpl, err := template.ParseFiles(
		filepath.Join(s.templatePath, "layout.html"),
		filepath.Join(s.templatePath, templateName),
	)
	if err != nil {
		return fmt.Errorf("failed to parse email templates: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("MedCollab <%s>", s.config.FromEmail),
		To:      []string{toEmail},
		Html:    body.String(),
		Subject: subject,
	}

	_, err = s.client.Emails.Send(params)
	return err
}

func (s *service) SendWelcomeEmail(ctx context.Context, toEmail, fullName, role string) error {
	data := struct {
		Title string
		Name  string
		Role  string
		Link  string
	}{
		Title: "Welcome to MedCollab",
		Name:  fullName,
		Role:  role,
		Link:  fmt.Sprintf("https://%s/login", s.config.Domain),
	}
	return s.sendEmail(toEmail, "Welcome to MedCollab!", "welcome.html", data)
}

func (s *service) SendEmailVerification(ctx context.Context, toEmail, fullName, verificationToken string) error {
	data := struct {
		Title string
		Name  string
		Link  string
	}{
		Title: "Verify Your Email - MedCollab",
		Name:  fullName,
		Link:  fmt.Sprintf("https://%s/verify-email?token=%s", s.config.Domain, verificationToken),
	}
	return s.sendEmail(toEmail, "Verify Your Email - MedCollab", "verification.html", data)
}

func (s *service) SendPasswordResetEmail(ctx context.Context, toEmail, fullName, resetToken string) error {
	data := struct {
		Title string
		Name  string
		Link  string
	}{
		Title: "Reset Your Password - MedCollab",
		Name:  fullName,
		Link:  fmt.Sprintf("https://%s/reset-password?token=%s", s.config.Domain, resetToken),
	}
	return s.sendEmail(toEmail, "Password Reset Request - MedCollab", "reset_password.html", data)
}

func (s *service) SendAccessRequestEmail(ctx context.Context, toEmail, patientName, doctorName, recordID string) error {
	data := struct {
		Title      string
		Name       string
		DoctorName string
		RecordID   string
		Link       string
	}{
		Title:      "New Record Access Request",
		Name:       patientName,
		DoctorName: doctorName,
		RecordID:   recordID,
		Link:       fmt.Sprintf("https://%s/notifications", s.config.Domain),
	}
	return s.sendEmail(toEmail, "New Record Access Request - MedCollab", "access_request.html", data)
}

func (s *service) SendAccessDecisionEmail(ctx context.Context, toEmail, doctorName, patientName, recordID string, granted bool) error {
	status := "Granted"
	color := "#10b981"
	if !granted {
		status = "Declined"
		color = "#ef4444"
	}

	data := struct {
		Title       string
		Name        string
		PatientName string
		RecordID    string
		Status      string
		Color       string
	}{
		Title:       fmt.Sprintf("Access Request %s", status),
		Name:        doctorName,
		PatientName: patientName,
		RecordID:    recordID,
		Status:      status,
		Color:       color,
	}
	return s.sendEmail(toEmail, fmt.Sprintf("Access Request %s - MedCollab", status), "access_decision.html", data)
}

func (s *service) SendCaseInviteEmail(ctx context.Context, toEmail, doctorName, inviterName, caseTitle string) error {
	data := struct {
		Title       string
		Name        string
		InviterName string
		CaseTitle   string
		Link        string
	}{
		Title:       "Case Collaboration Invite",
		Name:        doctorName,
		InviterName: inviterName,
		CaseTitle:   caseTitle,
		Link:        fmt.Sprintf("https://%s/cases", s.config.Domain),
	}
	return s.sendEmail(toEmail, fmt.Sprintf("You Were Added to %q - MedCollab", caseTitle), "case_invite.html", data)
}

func (s *service) SendNewCommentEmail(ctx context.Context, toEmail, recipientName, authorName, caseTitle string) error {
	data := struct {
		Title      string
		Name       string
		AuthorName string
		CaseTitle  string
	}{
		Title:      "New Comment",
		Name:       recipientName,
		AuthorName: authorName,
		CaseTitle:  caseTitle,
	}
	return s.sendEmail(toEmail, fmt.Sprintf("New Comment on %s - MedCollab", caseTitle), "new_comment.html", data)
}
