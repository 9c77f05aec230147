package handler

import (
	"medcollab/internal/realtime"
	"medcollab/internal/service"
)

type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Thread       *ThreadHandler
	Notification *NotificationHandler
	Record       *RecordHandler
	Case         *CaseHandler
	Media        *MediaHandler
	Dashboard    *DashboardHandler
	Audit        *AuditHandler
	WS           *WSHandler
}

func NewHandlers(services *service.Services, hub *realtime.Hub) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth),
		User:         NewUserHandler(services.User),
		Thread:       NewThreadHandler(services.Thread),
		Notification: NewNotificationHandler(services.Notification),
		Record:       NewRecordHandler(services.Record),
		Case:         NewCaseHandler(services.Collab),
		Media:        NewMediaHandler(services.Media),
		Dashboard:    NewDashboardHandler(services.Dashboard),
		Audit:        NewAuditHandler(services.Audit),
		WS:           NewWSHandler(hub, services.Auth),
	}
}
