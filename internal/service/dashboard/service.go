package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"medcollab/internal/domain"
	"medcollab/internal/fabric"
	"medcollab/internal/repository"
)

type Stats struct {
	Records             int64 `json:"records"`
	OpenCases           int64 `json:"open_cases"`
	UnreadNotifications int64 `json:"unread_notifications"`
	PendingRequests     int64 `json:"pending_requests"`
}

type Service interface {
	GetStats(ctx context.Context, viewer *domain.User) (*Stats, error)
}

type service struct {
	caseRepo  repository.CaseRepository
	notifRepo repository.NotificationRepository
	fabric    fabric.Client
	redis     *redis.Client
}

func NewService(caseRepo repository.CaseRepository, notifRepo repository.NotificationRepository, fabricClient fabric.Client, redis *redis.Client) Service {
	return &service{
		caseRepo:  caseRepo,
		notifRepo: notifRepo,
		fabric:    fabricClient,
		redis:     redis,
	}
}

func (s *service) GetStats(ctx context.Context, viewer *domain.User) (*Stats, error) {
	cacheKey := fmt.Sprintf("dashboard:stats:%s", viewer.ID)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var stats Stats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return &stats, nil
			}
		}
	}

	var (
		openCases int64
		records   []domain.Record
		err       error
	)

	viewerID := viewer.ID.String()
	if viewer.Role == string(domain.RoleDoctor) {
		openCases, err = s.caseRepo.CountOpenByDoctor(ctx, viewer.ID)
		if err != nil {
			return nil, err
		}
		records, err = s.fabric.ListByDoctor(ctx, viewerID)
	} else {
		openCases, err = s.caseRepo.CountOpenByPatient(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		records, err = s.fabric.ListByPatient(ctx, viewerID)
	}
	if err != nil {
		// The ledger being down should not blank the whole dashboard.
		log.Printf("dashboard: record count unavailable for user %s: %v", viewer.ID, err)
		records = nil
	}

	unread, err := s.notifRepo.CountUnread(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}

	pending, err := s.notifRepo.CountPendingRequests(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Records:             int64(len(records)),
		OpenCases:           openCases,
		UnreadNotifications: unread,
		PendingRequests:     pending,
	}

	if s.redis != nil {
		if statsJSON, err := json.Marshal(stats); err == nil {
			_ = s.redis.Set(ctx, cacheKey, statsJSON, time.Minute).Err()
		}
	}

	return stats, nil
}
