package handler

import (
	"net/http"
	"testing"

	"github.com/erp/reporting/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemHandler(t *testing.T) {
	engine := gin.New()
	router.NewRouter(engine).Register(NewSystemHandler("reporting", "1.2.3")).Setup()

	t.Run("info", func(t *testing.T) {
		w := do(engine, http.MethodGet, "/api/v1/system/info", "")
		require.Equal(t, http.StatusOK, w.Code)

		data := dataMap(t, w)
		assert.Equal(t, "reporting", data["name"])
		assert.Equal(t, "1.2.3", data["version"])
		assert.NotEmpty(t, data["go_version"])
		assert.NotEmpty(t, data["uptime"])
	})

	t.Run("ping", func(t *testing.T) {
		w := do(engine, http.MethodGet, "/api/v1/system/ping", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "pong", dataMap(t, w)["message"])
	})
}
