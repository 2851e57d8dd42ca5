package handler

import (
	"chrono-union/backend/config"
	"chrono-union/backend/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Timezone  *TimezoneHandler
	Event     *EventHandler
	Instance  *InstanceHandler
	Integrity *IntegrityHandler
	Job       *JobHandler
	Export    *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Timezone:  NewTimezoneHandler(svc.Timezone),
		Event:     NewEventHandler(svc.Event),
		Instance:  NewInstanceHandler(svc.Instance, cfg.Jobs.GenerationDaysAhead),
		Integrity: NewIntegrityHandler(svc.Integrity),
		Job:       NewJobHandler(svc.Job),
		Export:    NewExportHandler(svc.Export, svc.ICS),
	}
}
