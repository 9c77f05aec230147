package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, fullName, role string) error {
	args := m.Called(ctx, toEmail, fullName, role)
	return args.Error(0)
}

func (m *EmailService) SendEmailVerification(ctx context.Context, toEmail, fullName, verificationToken string) error {
	args := m.Called(ctx, toEmail, fullName, verificationToken)
	return args.Error(0)
}

func (m *EmailService) SendPasswordResetEmail(ctx context.Context, toEmail, fullName, resetToken string) error {
	args := m.Called(ctx, toEmail, fullName, resetToken)
	return args.Error(0)
}

func (m *EmailService) SendAccessRequestEmail(ctx context.Context, toEmail, patientName, doctorName, recordID string) error {
	args := m.Called(ctx, toEmail, patientName, doctorName, recordID)
	return args.Error(0)
}

func (m *EmailService) SendAccessDecisionEmail(ctx context.Context, toEmail, doctorName, patientName, recordID string, granted bool) error {
	args := m.Called(ctx, toEmail, doctorName, patientName, recordID, granted)
	return args.Error(0)
}

func (m *EmailService) SendCaseInviteEmail(ctx context.Context, toEmail, doctorName, inviterName, caseTitle string) error {
	args := m.Called(ctx, toEmail, doctorName, inviterName, caseTitle)
	return args.Error(0)
}

func (m *EmailService) SendNewCommentEmail(ctx context.Context, toEmail, recipientName, authorName, caseTitle string) error {
	args := m.Called(ctx, toEmail, recipientName, authorName, caseTitle)
	return args.Error(0)
}
