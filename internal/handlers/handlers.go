package handlers

import (
	"ooc-bot/internal/catalog"
	"ooc-bot/pkg/tasks"
)

// Handlers wires the Telegram update loop to the catalog service and the
// task queue. The chat layer stays thin: all lookup logic lives in the
// resolver, all ingestion in the worker.
type Handlers struct {
	svc         *catalog.Service
	asynqClient tasks.TaskEnqueuer
	adminChatID int64
}

func New(svc *catalog.Service, asynqClient tasks.TaskEnqueuer, adminChatID int64) *Handlers {
	return &Handlers{
		svc:         svc,
		asynqClient: asynqClient,
		adminChatID: adminChatID,
	}
}
