package unit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"medcollab/internal/config"
	"medcollab/internal/domain"
	"medcollab/internal/service/auth"
	"medcollab/tests/mocks"
)

func authConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 7 * 24 * time.Hour,
		DefaultLocale:    "en",
	}
}

func newAuthService(userRepo *mocks.UserRepository, sessionRepo *mocks.SessionRepository, emailSvc *mocks.EmailService) auth.Service {
	return auth.NewService(userRepo, sessionRepo, emailSvc, authConfig())
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	license := "LIC-1234"

	t.Run("Doctor With License", func(t *testing.T) {
		mockUserRepo := new(mocks.UserRepository)
		mockSessionRepo := new(mocks.SessionRepository)
		mockEmailSvc := new(mocks.EmailService)
		svc := newAuthService(mockUserRepo, mockSessionRepo, mockEmailSvc)

		mockUserRepo.On("ExistsByEmail", ctx, "house@example.com").Return(false, nil).Once()
		mockUserRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.Email == "house@example.com" &&
				u.Role == "doctor" &&
				!u.IsEmailVerified &&
				u.PasswordHash != "password123"
		})).Return(nil).Once()
		mockUserRepo.On("SetEmailVerificationToken", ctx, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Once()
		mockEmailSvc.On("SendEmailVerification", mock.Anything, "house@example.com", "Gregory House", mock.AnythingOfType("string")).Return(nil).Maybe()

		user, err := svc.Register(ctx, domain.CreateUserInput{
			Email:         "house@example.com",
			Password:      "password123",
			FullName:      "Gregory House",
			Role:          "doctor",
			LicenseNumber: &license,
		})

		assert.NoError(t, err)
		assert.NotNil(t, user)
		mockUserRepo.AssertExpectations(t)
	})

	t.Run("Doctor Without License Is Refused", func(t *testing.T) {
		svc := newAuthService(new(mocks.UserRepository), new(mocks.SessionRepository), new(mocks.EmailService))

		user, err := svc.Register(ctx, domain.CreateUserInput{
			Email:    "house@example.com",
			Password: "password123",
			FullName: "Gregory House",
			Role:     "doctor",
		})

		assert.ErrorIs(t, err, auth.ErrLicenseRequired)
		assert.Nil(t, user)
	})

	t.Run("Unknown Role Is Refused", func(t *testing.T) {
		svc := newAuthService(new(mocks.UserRepository), new(mocks.SessionRepository), new(mocks.EmailService))

		user, err := svc.Register(ctx, domain.CreateUserInput{
			Email:    "admin@example.com",
			Password: "password123",
			FullName: "Root",
			Role:     "admin",
		})

		assert.ErrorIs(t, err, auth.ErrInvalidRole)
		assert.Nil(t, user)
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		mockUserRepo := new(mocks.UserRepository)
		svc := newAuthService(mockUserRepo, new(mocks.SessionRepository), new(mocks.EmailService))

		mockUserRepo.On("ExistsByEmail", ctx, "taken@example.com").Return(true, nil).Once()

		user, err := svc.Register(ctx, domain.CreateUserInput{
			Email:    "taken@example.com",
			Password: "password123",
			FullName: "Alice Martin",
			Role:     "patient",
		})

		assert.ErrorIs(t, err, auth.ErrEmailExists)
		assert.Nil(t, user)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	assert.NoError(t, err)

	verified := &domain.User{
		ID:              uuid.New(),
		Email:           "alice@example.com",
		PasswordHash:    string(hash),
		FullName:        "Alice Martin",
		Role:            "patient",
		IsActive:        true,
		IsEmailVerified: true,
	}

	t.Run("Success", func(t *testing.T) {
		mockUserRepo := new(mocks.UserRepository)
		mockSessionRepo := new(mocks.SessionRepository)
		svc := newAuthService(mockUserRepo, mockSessionRepo, new(mocks.EmailService))

		mockUserRepo.On("GetByEmail", ctx, "alice@example.com").Return(verified, nil).Once()
		mockSessionRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		user, tokens, err := svc.Login(ctx, domain.LoginInput{Email: "alice@example.com", Password: "password123"})

		assert.NoError(t, err)
		assert.Equal(t, verified, user)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)

		// The token round-trips through validation.
		claims, err := svc.ValidateAccessToken(tokens.AccessToken)
		assert.NoError(t, err)
		assert.Equal(t, verified.ID, claims.UserID)
		assert.Equal(t, "patient", claims.Role)
	})

	t.Run("Wrong Password", func(t *testing.T) {
		mockUserRepo := new(mocks.UserRepository)
		svc := newAuthService(mockUserRepo, new(mocks.SessionRepository), new(mocks.EmailService))

		mockUserRepo.On("GetByEmail", ctx, "alice@example.com").Return(verified, nil).Once()

		_, _, err := svc.Login(ctx, domain.LoginInput{Email: "alice@example.com", Password: "nope"})

		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("Unknown Email", func(t *testing.T) {
		mockUserRepo := new(mocks.UserRepository)
		svc := newAuthService(mockUserRepo, new(mocks.SessionRepository), new(mocks.EmailService))

		mockUserRepo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, nil).Once()

		_, _, err := svc.Login(ctx, domain.LoginInput{Email: "ghost@example.com", Password: "password123"})

		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("Unverified Email", func(t *testing.T) {
		mockUserRepo := new(mocks.UserRepository)
		svc := newAuthService(mockUserRepo, new(mocks.SessionRepository), new(mocks.EmailService))

		unverified := *verified
		unverified.IsEmailVerified = false
		mockUserRepo.On("GetByEmail", ctx, "alice@example.com").Return(&unverified, nil).Once()

		_, _, err := svc.Login(ctx, domain.LoginInput{Email: "alice@example.com", Password: "password123"})

		assert.ErrorIs(t, err, auth.ErrEmailNotVerified)
	})
}

func TestAuthService_ResetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("Success Revokes Every Session", func(t *testing.T) {
		mockUserRepo := new(mocks.UserRepository)
		mockSessionRepo := new(mocks.SessionRepository)
		svc := newAuthService(mockUserRepo, mockSessionRepo, new(mocks.EmailService))

		expires := time.Now().Add(time.Hour)
		user := &domain.User{ID: uuid.New(), Email: "alice@example.com", PasswordResetExpiresAt: &expires}

		mockUserRepo.On("GetUserByResetToken", ctx, "tok").Return(user, nil).Once()
		mockUserRepo.On("UpdatePassword", ctx, user.ID, mock.AnythingOfType("string")).Return(nil).Once()
		mockUserRepo.On("ClearPasswordResetToken", ctx, user.ID).Return(nil).Once()
		mockSessionRepo.On("RevokeAllForUser", ctx, user.ID).Return(nil).Once()

		err := svc.ResetPassword(ctx, "tok", "new-password-123")

		assert.NoError(t, err)
		mockSessionRepo.AssertExpectations(t)
	})

	t.Run("Expired Token", func(t *testing.T) {
		mockUserRepo := new(mocks.UserRepository)
		svc := newAuthService(mockUserRepo, new(mocks.SessionRepository), new(mocks.EmailService))

		expired := time.Now().Add(-time.Hour)
		user := &domain.User{ID: uuid.New(), PasswordResetExpiresAt: &expired}
		mockUserRepo.On("GetUserByResetToken", ctx, "tok").Return(user, nil).Once()

		err := svc.ResetPassword(ctx, "tok", "new-password-123")

		assert.ErrorIs(t, err, auth.ErrTokenExpired)
		mockUserRepo.AssertNotCalled(t, "UpdatePassword", ctx, user.ID, mock.Anything)
	})

	t.Run("Unknown Token", func(t *testing.T) {
		mockUserRepo := new(mocks.UserRepository)
		svc := newAuthService(mockUserRepo, new(mocks.SessionRepository), new(mocks.EmailService))

		mockUserRepo.On("GetUserByResetToken", ctx, "ghost").Return(nil, nil).Once()

		err := svc.ResetPassword(ctx, "ghost", "new-password-123")

		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}
