package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/upb/rol-control-plane/middleware"
	"github.com/upb/rol-control-plane/models"
	"github.com/upb/rol-control-plane/services"
	"github.com/upb/rol-control-plane/utils"
	"go.uber.org/zap"
)

// OrganizationProvider defines the organization operations used by OrganizationHandler
type OrganizationProvider interface {
	List(ctx context.Context, limit, offset int) ([]*models.Organization, error)
	Get(ctx context.Context, orgID uuid.UUID) (*services.OrganizationDetail, error)
	Staff(ctx context.Context, orgID uuid.UUID) ([]*models.StaffMember, error)
	UpdateTeam(ctx context.Context, userID, orgID, teamID uuid.UUID, input services.UpdateTeamInput) (*models.Team, error)
}

// OrganizationHandler serves esports organizations. The route guard has
// already checked that the caller may open the organization.
type OrganizationHandler struct {
	orgs   OrganizationProvider
	logger *zap.Logger
}

// NewOrganizationHandler creates a new OrganizationHandler
func NewOrganizationHandler(orgs OrganizationProvider, logger *zap.Logger) *OrganizationHandler {
	return &OrganizationHandler{
		orgs:   orgs,
		logger: logger,
	}
}

// HandleList handles GET /admin/organizations
func (h *OrganizationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit", 0)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	offset, err := intQuery(r, "offset", 0)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	orgs, err := h.orgs.List(r.Context(), limit, offset)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, orgs)
}

// HandleGet handles GET /organizations/{orgID}
func (h *OrganizationHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	orgID, err := uuidParam(r, "orgID")
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	org, err := h.orgs.Get(r.Context(), orgID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, org)
}

// HandleStaff handles GET /organizations/{orgID}/staff
func (h *OrganizationHandler) HandleStaff(w http.ResponseWriter, r *http.Request) {
	orgID, err := uuidParam(r, "orgID")
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	members, err := h.orgs.Staff(r.Context(), orgID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, members)
}

// HandleUpdateTeam handles PATCH /organizations/{orgID}/teams/{teamID}
func (h *OrganizationHandler) HandleUpdateTeam(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	session := middleware.GetSessionFromContext(ctx)
	if session == nil {
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	orgID, err := uuidParam(r, "orgID")
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	teamID, err := uuidParam(r, "teamID")
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	var req services.UpdateTeamInput
	if err := decodeJSON(w, r, &req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	team, err := h.orgs.UpdateTeam(ctx, session.UserID, orgID, teamID, req)
	if err != nil {
		h.logger.Warn("failed to update team",
			zap.String("request_id", requestID),
			zap.String("org_id", orgID.String()),
			zap.String("team_id", teamID.String()),
			zap.Error(err))
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, team)
}
