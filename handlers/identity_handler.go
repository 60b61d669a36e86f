package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/upb/rol-control-plane/middleware"
	"github.com/upb/rol-control-plane/models"
	"github.com/upb/rol-control-plane/services"
	"github.com/upb/rol-control-plane/supabase"
	"github.com/upb/rol-control-plane/utils"
	"go.uber.org/zap"
)

// IdentityProvider defines the identity operations used by IdentityHandler
type IdentityProvider interface {
	Identity(ctx context.Context, user *supabase.User, member *models.StaffMember) (*services.Identity, error)
	PermissionMatrix() *services.PermissionMatrix
	AccessReport(ctx context.Context, userID uuid.UUID) (*services.AccessReport, error)
}

// IdentityHandler serves the signed-in user's identity and the permission table
type IdentityHandler struct {
	identity IdentityProvider
	logger   *zap.Logger
}

// NewIdentityHandler creates a new IdentityHandler
func NewIdentityHandler(identity IdentityProvider, logger *zap.Logger) *IdentityHandler {
	return &IdentityHandler{
		identity: identity,
		logger:   logger,
	}
}

// HandlePrivate handles GET /private
func (h *IdentityHandler) HandlePrivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	user := middleware.GetUserFromContext(ctx)
	member := middleware.GetStaffMemberFromContext(ctx)

	identity, err := h.identity.Identity(ctx, user, member)
	if err != nil {
		h.logger.Warn("failed to build identity",
			zap.String("request_id", requestID),
			zap.Error(err))
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, identity)
}

// HandlePermissionMatrix handles GET /admin/permissions
func (h *IdentityHandler) HandlePermissionMatrix(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteOK(w, h.identity.PermissionMatrix())
}

// HandleAccessReport handles GET /admin/access/{userID}
func (h *IdentityHandler) HandleAccessReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	userID, err := uuidParam(r, "userID")
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	report, err := h.identity.AccessReport(ctx, userID)
	if err != nil {
		h.logger.Error("failed to build access report",
			zap.String("request_id", requestID),
			zap.String("user_id", userID.String()),
			zap.Error(err))
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, report)
}
