package handlers

import (
	"context"
	"net/http"

	"github.com/upb/rol-control-plane/models"
	"github.com/upb/rol-control-plane/repositories"
	"github.com/upb/rol-control-plane/utils"
	"go.uber.org/zap"
)

// AuditLister reads the staff audit trail
type AuditLister interface {
	List(ctx context.Context, filter repositories.AuditFilter) ([]*models.AuditLog, error)
}

// AuditHandler serves the staff audit trail to owners and platform admins
type AuditHandler struct {
	audit  AuditLister
	logger *zap.Logger
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(audit AuditLister, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		audit:  audit,
		logger: logger,
	}
}

// HandleList handles GET /admin/audit?staff_id=&actor_id=&limit=
func (h *AuditHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var (
		filter repositories.AuditFilter
		err    error
	)
	if filter.StaffID, err = uuidQuery(r, "staff_id"); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	if filter.ActorID, err = uuidQuery(r, "actor_id"); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	if filter.Limit, err = intQuery(r, "limit", 0); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	logs, err := h.audit.List(r.Context(), filter)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, logs)
}
