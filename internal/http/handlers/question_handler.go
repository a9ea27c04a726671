package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/phtrivia/phtrivia-backend/internal/dto"
	"github.com/phtrivia/phtrivia-backend/internal/http/handlers/common"
	"github.com/phtrivia/phtrivia-backend/internal/repository"
	"github.com/phtrivia/phtrivia-backend/internal/service"
)

// QuestionHandler is the admin HTTP layer for category and question
// management, including AI-assisted drafting.
type QuestionHandler struct {
	svc *service.QuestionService
}

func NewQuestionHandler(svc *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{svc: svc}
}

// CreateCategory handles POST /admin/categories.
func (h *QuestionHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	category, err := h.svc.CreateCategory(c.Request.Context(), service.CreateCategoryInput{
		Name:     req.Name,
		IsActive: boolOrDefault(req.IsActive, true),
	})
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusCreated, category)
}

// UpdateCategory handles PUT /admin/categories/:id.
func (h *QuestionHandler) UpdateCategory(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.CreateCategoryRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	category, err := h.svc.UpdateCategory(c.Request.Context(), id, service.CreateCategoryInput{
		Name:     req.Name,
		IsActive: boolOrDefault(req.IsActive, true),
	})
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			common.RespondNotFound(c, "category not found")
			return
		}
		common.RespondBadRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, category)
}

// ListCategories handles GET /admin/categories, inactive ones included.
func (h *QuestionHandler) ListCategories(c *gin.Context) {
	categories, err := h.svc.ListCategories(c.Request.Context(), true)
	if err != nil {
		c.Error(err)
		common.RespondInternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CreateQuestion handles POST /admin/questions.
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req dto.CreateQuestionRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		common.RespondBadRequest(c, "category_id must be a valid UUID")
		return
	}

	question, err := h.svc.CreateQuestion(c.Request.Context(), service.CreateQuestionInput{
		CategoryID:   categoryID,
		Text:         req.Text,
		Points:       req.Points,
		OptionTexts:  req.Options,
		CorrectIndex: req.CorrectIndex,
		IsActive:     boolOrDefault(req.IsActive, true),
	})
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			common.RespondNotFound(c, "category not found")
			return
		}
		common.RespondBadRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusCreated, question)
}

// GetQuestion handles GET /admin/questions/:id.
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	question, err := h.svc.GetQuestion(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrQuestionNotFound) {
			common.RespondNotFound(c, "question not found")
			return
		}
		c.Error(err)
		common.RespondInternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, question)
}

// ListQuestions handles GET /admin/questions?category_id=...
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	var categoryID *uuid.UUID
	if raw := c.Query("category_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			common.RespondBadRequest(c, "category_id must be a valid UUID")
			return
		}
		categoryID = &parsed
	}

	limit, offset := common.GetPagination(c)
	questions, err := h.svc.ListQuestions(c.Request.Context(), categoryID, limit, offset)
	if err != nil {
		c.Error(err)
		common.RespondInternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

// UpdateQuestion handles PUT /admin/questions/:id.
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.UpdateQuestionRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	question, err := h.svc.UpdateQuestion(c.Request.Context(), id, req.Text, req.Points, boolOrDefault(req.IsActive, true))
	if err != nil {
		if errors.Is(err, repository.ErrQuestionNotFound) {
			common.RespondNotFound(c, "question not found")
			return
		}
		common.RespondBadRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, question)
}

// DeactivateQuestion handles DELETE /admin/questions/:id. Questions are
// never removed, attempts keep pointing at them.
func (h *QuestionHandler) DeactivateQuestion(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.svc.DeactivateQuestion(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrQuestionNotFound) {
			common.RespondNotFound(c, "question not found")
			return
		}
		c.Error(err)
		common.RespondInternalError(c, "")
		return
	}

	common.RespondSuccess(c, http.StatusOK, "question deactivated", nil)
}

// DraftQuestions handles POST /admin/questions/draft. Drafts are
// returned for review, nothing is persisted.
func (h *QuestionHandler) DraftQuestions(c *gin.Context) {
	var req dto.DraftQuestionsRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	drafts, err := h.svc.DraftQuestions(c.Request.Context(), req.Topic, req.Count)
	if err != nil {
		common.RespondError(c, http.StatusBadGateway, "question drafting failed: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"drafts": drafts})
}

func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
