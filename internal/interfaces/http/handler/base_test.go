package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/localisation/backend/internal/domain/shared"
	"github.com/localisation/backend/internal/interfaces/http/dto"
	"github.com/localisation/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"not found", shared.NewNotFoundError("dossier", 9), http.StatusNotFound, dto.ErrCodeNotFound, "dossier 9 not found"},
		{"validation", shared.NewValidationError("Unknown action \"x\""), http.StatusUnprocessableEntity, dto.ErrCodeValidation, "Unknown action \"x\""},
		{"conflict", shared.ErrConflict, http.StatusConflict, dto.ErrCodeConflict, shared.ErrConflict.Message},
		{"already exists", shared.ErrAlreadyExists, http.StatusConflict, dto.ErrCodeAlreadyExists, shared.ErrAlreadyExists.Message},
		{"unauthorized", shared.ErrUnauthorized, http.StatusUnauthorized, dto.ErrCodeUnauthorized, shared.ErrUnauthorized.Message},
		{"invalid input", shared.ErrInvalidInput, http.StatusBadRequest, dto.ErrCodeInvalidInput, shared.ErrInvalidInput.Message},
		{"wrapped domain error", fmt.Errorf("lookup: %w", shared.NewNotFoundError("pv", 3)), http.StatusNotFound, dto.ErrCodeNotFound, "pv 3 not found"},
		{"plain error is hidden", errors.New("disk on fire"), http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext("/")
			c.Set(middleware.RequestIDKey, "req-42")

			h := &BaseHandler{}
			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decode(t, w, nil)
			require.NotNil(t, resp.Error)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMsg, resp.Error.Message)
			assert.Equal(t, "req-42", resp.Error.RequestID)
		})
	}
}

func TestBaseHandler_HandleErrorNil(t *testing.T) {
	c, w := newTestContext("/")
	h := &BaseHandler{}
	h.HandleError(c, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestBaseHandler_IntParam(t *testing.T) {
	tests := []struct {
		value  string
		want   int
		wantOK bool
	}{
		{"12", 12, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			c, w := newTestContext("/")
			c.Params = gin.Params{{Key: "id", Value: tt.value}}

			h := &BaseHandler{}
			got, ok := h.intParam(c, "id")

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			if !tt.wantOK {
				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Equal(t, dto.ErrCodeInvalidInput, errorCodeOf(t, w))
			}
		})
	}
}
