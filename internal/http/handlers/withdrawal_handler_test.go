package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestWithdrawalHandler_Submit_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &WithdrawalHandler{svc: nil}
	r.POST("/withdrawals", handler.Submit)

	body := bytes.NewBufferString(`{"points":"500","payment_method":"gcash","payment_details":"x"}`)
	req, _ := http.NewRequest("POST", "/withdrawals", body)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWithdrawalHandler_ListMine_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &WithdrawalHandler{svc: nil}
	r.GET("/withdrawals", handler.ListMine)

	req, _ := http.NewRequest("GET", "/withdrawals", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWithdrawalHandler_Get_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &WithdrawalHandler{svc: nil}
	r.GET("/admin/withdrawals/:id", handler.Get)

	req, _ := http.NewRequest("GET", "/admin/withdrawals/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWithdrawalHandler_UpdateStatus_InvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &WithdrawalHandler{svc: nil}
	r.PATCH("/admin/withdrawals/:id/status", handler.UpdateStatus)

	body := bytes.NewBufferString(`{"status":"approved"}`)
	req, _ := http.NewRequest("PATCH", "/admin/withdrawals/bogus/status", body)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
