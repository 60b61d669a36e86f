package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/upb/rol-control-plane/middleware"
	"github.com/upb/rol-control-plane/models"
	"github.com/upb/rol-control-plane/permissions"
	"github.com/upb/rol-control-plane/services"
	"github.com/upb/rol-control-plane/utils"
	"go.uber.org/zap"
)

// StaffManager defines the staff operations used by StaffHandler
type StaffManager interface {
	List(ctx context.Context, actor *models.StaffMember, opts services.StaffListOptions) ([]*models.StaffMember, error)
	Create(ctx context.Context, actor *models.StaffMember, input services.CreateStaffInput) (*models.StaffMember, error)
	UpdateRole(ctx context.Context, actor *models.StaffMember, id uuid.UUID, role permissions.StaffRole) (*models.StaffMember, error)
	Delete(ctx context.Context, actor *models.StaffMember, id uuid.UUID) error
}

// UpdateRoleRequest is the body of PUT /staff/members/{id}/role
type UpdateRoleRequest struct {
	Role permissions.StaffRole `json:"role" validate:"required,staff_role"`
}

// StaffHandler handles staff member management requests
type StaffHandler struct {
	staff  StaffManager
	logger *zap.Logger
}

// NewStaffHandler creates a new StaffHandler
func NewStaffHandler(staff StaffManager, logger *zap.Logger) *StaffHandler {
	return &StaffHandler{
		staff:  staff,
		logger: logger,
	}
}

// HandleList handles GET /staff/members
func (h *StaffHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	orgID, err := uuidQuery(r, "organization_id")
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	opts := services.StaffListOptions{
		OrganizationID: orgID,
		ManageableOnly: r.URL.Query().Get("manageable") == "true",
	}

	members, err := h.staff.List(ctx, middleware.GetStaffMemberFromContext(ctx), opts)
	if err != nil {
		h.logger.Warn("failed to list staff",
			zap.String("request_id", requestID),
			zap.Error(err))
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Debug("listed staff",
		zap.String("request_id", requestID),
		zap.Int("count", len(members)))

	_ = utils.WriteOK(w, members)
}

// HandleCreate handles POST /staff/members
func (h *StaffHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	var req services.CreateStaffInput
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("failed to parse request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	member, err := h.staff.Create(ctx, middleware.GetStaffMemberFromContext(ctx), req)
	if err != nil {
		h.logger.Warn("failed to create staff member",
			zap.String("request_id", requestID),
			zap.Error(err))
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteCreated(w, member)
}

// HandleUpdateRole handles PUT /staff/members/{id}/role
func (h *StaffHandler) HandleUpdateRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	id, err := uuidParam(r, "id")
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	var req UpdateRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	member, err := h.staff.UpdateRole(ctx, middleware.GetStaffMemberFromContext(ctx), id, req.Role)
	if err != nil {
		h.logger.Warn("failed to update staff role",
			zap.String("request_id", requestID),
			zap.String("staff_id", id.String()),
			zap.Error(err))
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, member)
}

// HandleDelete handles DELETE /staff/members/{id}
func (h *StaffHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	id, err := uuidParam(r, "id")
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := h.staff.Delete(ctx, middleware.GetStaffMemberFromContext(ctx), id); err != nil {
		h.logger.Warn("failed to delete staff member",
			zap.String("request_id", requestID),
			zap.String("staff_id", id.String()),
			zap.Error(err))
		HandleServiceError(w, err, h.logger)
		return
	}

	utils.WriteNoContent(w)
}
