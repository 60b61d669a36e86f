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

// TournamentProvider defines the tournament operations used by CompetitionHandler
type TournamentProvider interface {
	List(ctx context.Context, region *models.Region) ([]*models.Tournament, error)
	Get(ctx context.Context, id uuid.UUID) (*services.TournamentDetail, error)
	RegisterTeam(ctx context.Context, actor *models.StaffMember, tournamentID, teamID uuid.UUID) (*models.TournamentTeam, error)
}

// LeagueProvider defines the league operations used by CompetitionHandler
type LeagueProvider interface {
	List(ctx context.Context, region *models.Region) ([]*models.League, error)
	Get(ctx context.Context, id uuid.UUID) (*models.League, error)
}

// RegisterTeamRequest is the body of POST /tournaments/{id}/teams
type RegisterTeamRequest struct {
	TeamID uuid.UUID `json:"team_id" validate:"required"`
}

// CompetitionHandler serves tournaments and leagues
type CompetitionHandler struct {
	tournaments TournamentProvider
	leagues     LeagueProvider
	logger      *zap.Logger
}

// NewCompetitionHandler creates a new CompetitionHandler
func NewCompetitionHandler(tournaments TournamentProvider, leagues LeagueProvider, logger *zap.Logger) *CompetitionHandler {
	return &CompetitionHandler{
		tournaments: tournaments,
		leagues:     leagues,
		logger:      logger,
	}
}

// HandleListTournaments handles GET /tournaments/
func (h *CompetitionHandler) HandleListTournaments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tournaments, err := h.tournaments.List(ctx, regionQuery(r))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Debug("listed tournaments",
		zap.String("request_id", middleware.GetRequestIDFromContext(ctx)),
		zap.Int("count", len(tournaments)))

	_ = utils.WriteOK(w, tournaments)
}

// HandleGetTournament handles GET /tournaments/{id}
func (h *CompetitionHandler) HandleGetTournament(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	tournament, err := h.tournaments.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, tournament)
}

// HandleRegisterTeam handles POST /tournaments/{id}/teams
func (h *CompetitionHandler) HandleRegisterTeam(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	tournamentID, err := uuidParam(r, "id")
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	var req RegisterTeamRequest
	if err := decodeJSON(w, r, &req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	entry, err := h.tournaments.RegisterTeam(ctx, middleware.GetStaffMemberFromContext(ctx), tournamentID, req.TeamID)
	if err != nil {
		h.logger.Warn("team registration failed",
			zap.String("request_id", requestID),
			zap.String("tournament_id", tournamentID.String()),
			zap.String("team_id", req.TeamID.String()),
			zap.Error(err))
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteCreated(w, entry)
}

// HandleListLeagues handles GET /leagues/
func (h *CompetitionHandler) HandleListLeagues(w http.ResponseWriter, r *http.Request) {
	leagues, err := h.leagues.List(r.Context(), regionQuery(r))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, leagues)
}

// HandleGetLeague handles GET /leagues/{id}
func (h *CompetitionHandler) HandleGetLeague(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	league, err := h.leagues.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, league)
}
