package usecase

import (
	"context"

	"belezure-api/internal/converter"
	"belezure-api/internal/delivery/dto"
	"belezure-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	defaultAuditLogLimit = 50
	maxAuditLogLimit     = 200
)

type AuditLogUsecase interface {
	ListMyAuditLogs(ctx context.Context, userID uuid.UUID, limit int) (*dto.AuditLogListResponse, error)
}

type auditLogUsecase struct {
	log          *logrus.Logger
	auditService service.AuditService
}

func NewAuditLogUsecase(
	log *logrus.Logger,
	auditService service.AuditService,
) AuditLogUsecase {
	return &auditLogUsecase{
		log:          log,
		auditService: auditService,
	}
}

// ListMyAuditLogs returns the caller's most recent activity, newest first.
func (u *auditLogUsecase) ListMyAuditLogs(ctx context.Context, userID uuid.UUID, limit int) (*dto.AuditLogListResponse, error) {
	if limit <= 0 {
		limit = defaultAuditLogLimit
	}
	if limit > maxAuditLogLimit {
		limit = maxAuditLogLimit
	}

	logs, err := u.auditService.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, asTransient(err)
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}
