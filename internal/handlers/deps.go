package handlers

import (
	"context"
	"log/slog"

	"github.com/splittally/tally-backend/internal/dto"
	"github.com/splittally/tally-backend/internal/response"
)

type EventRouter interface {
	HandleMessage(ctx context.Context, ev dto.MessageEvent) error
	HandleCallback(ctx context.Context, ev dto.CallbackEvent) error
}

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	Events          EventRouter
}
