package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"medcollab/internal/config"
	"medcollab/internal/fabric"
	"medcollab/internal/realtime"
	"medcollab/internal/repository"
	"medcollab/internal/service/audit"
	"medcollab/internal/service/auth"
	"medcollab/internal/service/collab"
	"medcollab/internal/service/dashboard"
	"medcollab/internal/service/email"
	"medcollab/internal/service/media"
	"medcollab/internal/service/notification"
	"medcollab/internal/service/record"
	"medcollab/internal/service/thread"
	"medcollab/internal/service/user"
)

type Services struct {
	Auth         auth.Service
	User         user.Service
	Thread       thread.Service
	Notification notification.Service
	Record       record.Service
	Collab       collab.Service
	Media        media.Service
	Email        email.Service
	Audit        audit.Service
	Dashboard    dashboard.Service
}

func NewServices(
	repos *repository.Repositories,
	redis *redis.Client,
	minioClient *minio.Client,
	fabricClient fabric.Client,
	hub *realtime.Hub,
	cfg *config.Config,
) *Services {
	emailService := email.NewService(cfg)
	authService := auth.NewService(repos.User, repos.Session, emailService, cfg)
	auditService := audit.NewService(repos.AuditLog)
	mediaService := media.NewService(repos.Media, minioClient, cfg)
	threadService := thread.NewService(repos.Comment, redis, hub)
	userService := user.NewService(repos.User, hub)

	notificationService := notification.NewService(repos.Notification, repos.User, fabricClient, emailService, hub, cfg)

	recordService := record.NewService(fabricClient, repos.User, auditService, cfg)
	recordService.SetNotificationService(notificationService)

	collabService := collab.NewService(repos.Case, repos.User, notificationService, emailService, auditService, cfg)
	dashboardService := dashboard.NewService(repos.Case, repos.Notification, fabricClient, redis)

	return &Services{
		Auth:         authService,
		User:         userService,
		Thread:       threadService,
		Notification: notificationService,
		Record:       recordService,
		Collab:       collabService,
		Media:        mediaService,
		Email:        emailService,
		Audit:        auditService,
		Dashboard:    dashboardService,
	}
}
