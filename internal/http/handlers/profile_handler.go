package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/phtrivia/phtrivia-backend/internal/dto"
	"github.com/phtrivia/phtrivia-backend/internal/http/handlers/common"
	"github.com/phtrivia/phtrivia-backend/internal/models"
	"github.com/phtrivia/phtrivia-backend/internal/repository"
	"github.com/phtrivia/phtrivia-backend/internal/service"
)

const recentActivityLimit = 10

// ProfileHandler serves the player profile page and the admin
// cross-user variants of it.
type ProfileHandler struct {
	users       *repository.UserRepository
	ledger      *service.LedgerService
	game        *service.GameService
	withdrawals *service.WithdrawalService
}

func NewProfileHandler(users *repository.UserRepository, ledger *service.LedgerService, game *service.GameService, withdrawals *service.WithdrawalService) *ProfileHandler {
	return &ProfileHandler{users: users, ledger: ledger, game: game, withdrawals: withdrawals}
}

// Me handles GET /profile.
func (h *ProfileHandler) Me(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	h.respondProfile(c, userID)
}

// Balance handles GET /profile/balance. Read failures degrade to zero
// totals inside the ledger, the endpoint itself never errors on them.
func (h *ProfileHandler) Balance(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, h.ledger.Balance(c.Request.Context(), userID))
}

// UserProfile handles GET /admin/users/:id/profile.
func (h *ProfileHandler) UserProfile(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	h.respondProfile(c, id)
}

// RecomputeStats handles POST /admin/users/:id/stats/recompute. Rebuilds
// the precomputed ledger aggregate from the raw logs.
func (h *ProfileHandler) RecomputeStats(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if _, err := h.users.GetByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			common.RespondNotFound(c, "user not found")
			return
		}
		c.Error(err)
		common.RespondInternalError(c, "")
		return
	}

	stats, err := h.ledger.RecomputeStats(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		common.RespondInternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *ProfileHandler) respondProfile(c *gin.Context, userID uuid.UUID) {
	ctx := c.Request.Context()

	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			common.RespondNotFound(c, "user not found")
			return
		}
		c.Error(err)
		common.RespondInternalError(c, "")
		return
	}

	resp := dto.ProfileResponse{
		User:    dto.NewUserResponse(user),
		Balance: h.ledger.Balance(ctx, userID),
	}

	if profile, err := h.users.GetProfile(ctx, userID); err == nil {
		resp.DisplayName = profile.DisplayName
	}
	if stats, err := h.game.Stats(ctx, userID); err == nil {
		resp.GameStats = stats
	}

	attempts, err := h.game.RecentAttempts(ctx, userID, recentActivityLimit)
	if err != nil {
		attempts = []models.Attempt{}
	}
	resp.Attempts = attempts

	withdrawals, err := h.withdrawals.ListUserWithdrawals(ctx, userID, recentActivityLimit)
	if err != nil {
		withdrawals = nil
	}
	resp.Withdrawals = dto.NewWithdrawalListResponse(withdrawals)

	c.JSON(http.StatusOK, resp)
}
