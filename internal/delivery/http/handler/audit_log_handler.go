package handler

import (
	"net/http"
	"strconv"

	"belezure-api/internal/usecase"
	"belezure-api/pkg/response"
	"belezure-api/pkg/session"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

// GetMyAuditLogs lists the caller's recent activity. ?limit caps the count.
func (h *AuditLogHandler) GetMyAuditLogs(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.BadRequest(w, "Invalid limit")
			return
		}
		limit = parsed
	}

	auditLogs, err := h.auditLogUsecase.ListMyAuditLogs(r.Context(), sess.UserID, limit)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get audit logs")
		return
	}

	response.Success(w, http.StatusOK, "Audit logs retrieved successfully", auditLogs)
}
