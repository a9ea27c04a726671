package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/phtrivia/phtrivia-backend/internal/dto"
	"github.com/phtrivia/phtrivia-backend/internal/http/handlers/common"
	"github.com/phtrivia/phtrivia-backend/internal/repository"
	"github.com/phtrivia/phtrivia-backend/internal/service"
)

const leaderboardCacheKey = "leaderboard:top"

// GameHandler is the HTTP layer for quiz play: question batches, answer
// submission and the leaderboard.
type GameHandler struct {
	game   *service.GameService
	ledger *service.LedgerService
	cache  *service.CacheService
}

func NewGameHandler(game *service.GameService, ledger *service.LedgerService, cache *service.CacheService) *GameHandler {
	return &GameHandler{game: game, ledger: ledger, cache: cache}
}

// Categories handles GET /categories.
func (h *GameHandler) Categories(c *gin.Context) {
	categories, err := h.game.Categories(c.Request.Context())
	if err != nil {
		c.Error(err)
		common.RespondInternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Quiz handles GET /quiz?category_id=...&limit=10. Answer keys are
// stripped before the questions leave the server.
func (h *GameHandler) Quiz(c *gin.Context) {
	rawCategory := c.Query("category_id")
	if rawCategory == "" {
		common.RespondBadRequest(c, "category_id is required")
		return
	}
	categoryID, err := uuid.Parse(rawCategory)
	if err != nil {
		common.RespondBadRequest(c, "category_id must be a valid UUID")
		return
	}

	limit := common.ParseIntQuery(c, "limit", 10)
	questions, err := h.game.QuizBatch(c.Request.Context(), categoryID, limit)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			common.RespondNotFound(c, "category not found")
			return
		}
		c.Error(err)
		common.RespondInternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

// SubmitAnswer handles POST /answers. The attempt is recorded once per
// question per user; repeats are rejected.
func (h *GameHandler) SubmitAnswer(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.SubmitAnswerRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	questionID, err := uuid.Parse(req.QuestionID)
	if err != nil {
		common.RespondBadRequest(c, "question_id must be a valid UUID")
		return
	}
	optionID, err := uuid.Parse(req.OptionID)
	if err != nil {
		common.RespondBadRequest(c, "option_id must be a valid UUID")
		return
	}

	result, err := h.game.SubmitAnswer(c.Request.Context(), userID, questionID, optionID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrQuestionNotFound):
			common.RespondNotFound(c, "question not found")
		case errors.Is(err, repository.ErrOptionNotFound):
			common.RespondBadRequest(c, "option does not belong to this question")
		case errors.Is(err, service.ErrQuestionInactive):
			common.RespondBadRequest(c, "question is no longer active")
		case errors.Is(err, repository.ErrAlreadyAnswered):
			common.RespondError(c, http.StatusConflict, "question already answered")
		default:
			c.Error(err)
			common.RespondInternalError(c, "")
		}
		return
	}

	// A correct answer changes the leaderboard, drop the cached copy.
	if result.PointsEarned > 0 {
		h.cache.Delete(leaderboardCacheKey)
	}

	c.JSON(http.StatusOK, dto.AnswerResponse{
		Correct:      result.IsCorrect,
		PointsEarned: result.PointsEarned,
		Balance:      h.ledger.Balance(c.Request.Context(), userID),
	})
}

// Leaderboard handles GET /leaderboard. Results are cached for a minute,
// the board tolerates slight staleness.
func (h *GameHandler) Leaderboard(c *gin.Context) {
	if cached, ok := h.cache.Get(leaderboardCacheKey); ok {
		c.JSON(http.StatusOK, gin.H{"leaderboard": cached})
		return
	}

	limit := common.ParseIntQuery(c, "limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	entries, err := h.game.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		c.Error(err)
		common.RespondInternalError(c, "")
		return
	}

	h.cache.Set(leaderboardCacheKey, entries, time.Minute)
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
