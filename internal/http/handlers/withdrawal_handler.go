package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/phtrivia/phtrivia-backend/internal/dto"
	"github.com/phtrivia/phtrivia-backend/internal/http/handlers/common"
	"github.com/phtrivia/phtrivia-backend/internal/repository"
	"github.com/phtrivia/phtrivia-backend/internal/service"
)

// WithdrawalHandler is the HTTP layer for withdrawal submission and the
// admin status workflow.
type WithdrawalHandler struct {
	svc *service.WithdrawalService
}

func NewWithdrawalHandler(s *service.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{svc: s}
}

// Submit handles POST /withdrawals. Validation failures come back as
// {success: false, error: ...} so the client can show the exact reason.
func (h *WithdrawalHandler) Submit(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.SubmitWithdrawalRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, dto.SubmitWithdrawalResponse{Success: false, Error: err.Error()})
		return
	}

	w, err := h.svc.Submit(c.Request.Context(), userID, req.PaymentMethod, req.PaymentDetails, req.Points)
	if err != nil {
		if isSubmissionRejection(err) {
			c.JSON(http.StatusBadRequest, dto.SubmitWithdrawalResponse{Success: false, Error: err.Error()})
			return
		}
		c.Error(err)
		c.JSON(http.StatusInternalServerError, dto.SubmitWithdrawalResponse{Success: false, Error: "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, dto.SubmitWithdrawalResponse{
		Success:    true,
		Withdrawal: dto.NewWithdrawalResponse(w),
	})
}

// ListMine handles GET /withdrawals.
func (h *WithdrawalHandler) ListMine(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	limit, _ := common.GetPagination(c)
	withdrawals, err := h.svc.ListUserWithdrawals(c.Request.Context(), userID, limit)
	if err != nil {
		c.Error(err)
		common.RespondInternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"withdrawals": dto.NewWithdrawalListResponse(withdrawals)})
}

// ListByStatus handles GET /admin/withdrawals?status=pending.
func (h *WithdrawalHandler) ListByStatus(c *gin.Context) {
	status := c.DefaultQuery("status", "pending")
	limit, offset := common.GetPagination(c)

	withdrawals, err := h.svc.ListByStatus(c.Request.Context(), status, limit, offset)
	if err != nil {
		if errors.Is(err, service.ErrUnknownStatus) {
			common.RespondBadRequest(c, err.Error())
			return
		}
		c.Error(err)
		common.RespondInternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"withdrawals": dto.NewWithdrawalListResponse(withdrawals)})
}

// Get handles GET /admin/withdrawals/:id.
func (h *WithdrawalHandler) Get(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	w, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrWithdrawalNotFound) {
			common.RespondNotFound(c, "withdrawal not found")
			return
		}
		c.Error(err)
		common.RespondInternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.NewWithdrawalResponse(w))
}

// UpdateStatus handles PATCH /admin/withdrawals/:id/status.
func (h *WithdrawalHandler) UpdateStatus(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.UpdateWithdrawalStatusRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	w, err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrWithdrawalNotFound):
			common.RespondNotFound(c, "withdrawal not found")
		case errors.Is(err, service.ErrUnknownStatus), errors.Is(err, service.ErrInvalidTransition):
			common.RespondBadRequest(c, err.Error())
		case errors.Is(err, repository.ErrStatusConflict):
			common.RespondError(c, http.StatusConflict, "withdrawal status changed concurrently")
		default:
			c.Error(err)
			common.RespondInternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, dto.NewWithdrawalResponse(w))
}

// isSubmissionRejection reports whether err is one of the typed
// validation rejections rather than an infrastructure failure.
func isSubmissionRejection(err error) bool {
	for _, rejection := range []error{
		service.ErrInvalidPaymentMethod,
		service.ErrEmptyPaymentDetails,
		service.ErrInvalidPaymentDetails,
		service.ErrInvalidAmount,
		service.ErrDuplicatePending,
		service.ErrBelowMinimum,
		service.ErrInsufficientBalance,
	} {
		if errors.Is(err, rejection) {
			return true
		}
	}
	return false
}
