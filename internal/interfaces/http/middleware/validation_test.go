package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/reporting/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type exportQuery struct {
	Target   string `form:"target" binding:"omitempty,oneof=download storage"`
	Filename string `form:"filename" binding:"omitempty,max=8"`
}

func TestHandleValidationError(t *testing.T) {
	SetupValidator()

	router := gin.New()
	router.Use(RequestID())
	router.GET("/export", func(c *gin.Context) {
		var q exportQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	t.Run("valid query", func(t *testing.T) {
		w := serve(router, httptest.NewRequest(http.MethodGet, "/export?target=storage", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("reports each failing field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/export?target=email&filename=far-too-long.csv", nil)
		req.Header.Set(RequestIDHeader, "req-7")
		w := serve(router, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "req-7", resp.Error.RequestID)

		got := map[string]dto.ValidationDetail{}
		for _, d := range resp.Error.Details {
			got[d.Field] = d
		}
		require.Len(t, got, 2)
		assert.Equal(t, "oneof", got["target"].Rule)
		assert.Equal(t, "Must be one of: download storage", got["target"].Message)
		assert.Equal(t, "Must be at most 8 characters", got["filename"].Message)
	})
}

func TestFormatValidationErrors_NonValidatorError(t *testing.T) {
	resp := FormatValidationErrors(assert.AnError, "")
	require.NotNil(t, resp.Error)
	assert.Empty(t, resp.Error.Details)
}
