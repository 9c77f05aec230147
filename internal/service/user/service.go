package user

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"medcollab/internal/domain"
	"medcollab/internal/realtime"
	"medcollab/internal/repository"
)

var ErrUserNotFound = errors.New("user not found")

type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Update(ctx context.Context, id uuid.UUID, input domain.UpdateUserInput) (*domain.User, error)
	ListDoctors(ctx context.Context) ([]domain.Profile, error)
	ListPatients(ctx context.Context) ([]domain.Profile, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
}

type service struct {
	userRepo repository.UserRepository
	hub      *realtime.Hub
}

func NewService(userRepo repository.UserRepository, hub *realtime.Hub) Service {
	return &service{
		userRepo: userRepo,
		hub:      hub,
	}
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input domain.UpdateUserInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.AvatarURL != nil {
		user.AvatarURL = *input.AvatarURL
	}
	if input.Specialty != nil {
		user.Specialty = *input.Specialty
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Country != nil {
		user.Country = *input.Country
	}
	if input.City != nil {
		user.City = *input.City
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *service) ListDoctors(ctx context.Context) ([]domain.Profile, error) {
	return s.listProfiles(ctx, string(domain.RoleDoctor))
}

func (s *service) ListPatients(ctx context.Context) ([]domain.Profile, error) {
	return s.listProfiles(ctx, string(domain.RolePatient))
}

func (s *service) listProfiles(ctx context.Context, role string) ([]domain.Profile, error) {
	users, err := s.userRepo.ListByRole(ctx, role)
	if err != nil {
		return nil, err
	}

	profiles := make([]domain.Profile, 0, len(users))
	for i := range users {
		profiles = append(profiles, s.toProfile(&users[i]))
	}
	return profiles, nil
}

func (s *service) GetProfile(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	profile := s.toProfile(user)
	return &profile, nil
}

func (s *service) toProfile(u *domain.User) domain.Profile {
	p := domain.Profile{
		ID:   u.ID,
		Name: u.FullName,
	}
	if u.AvatarURL != nil {
		p.Avatar = *u.AvatarURL
	}
	if u.Specialty != nil {
		p.Specialty = *u.Specialty
	}
	if s.hub != nil {
		p.Online = s.hub.IsOnline(u.ID.String())
	}
	return p
}
