package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	group := NewDomainGroup("reports", "/reports").
		GET("/presets", func(c *gin.Context) { c.String(http.StatusOK, "presets") }).
		POST("/:kind/export", func(c *gin.Context) { c.String(http.StatusOK, c.Param("kind")) })

	NewRouter(engine).Register(group).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/reports/presets")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "presets", w.Body.String())

	w = serve(engine, http.MethodPost, "/api/v1/reports/aged/export")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "aged", w.Body.String())

	w = serve(engine, http.MethodGet, "/api/v1/reports/aged/export")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("system", "/system")
		assert.Equal(t, "system", g.Name())
		assert.Equal(t, "/system", g.Prefix())
	})

	t.Run("middleware runs before handlers", func(t *testing.T) {
		engine := gin.New()
		NewDomainGroup("test", "/test").
			Use(func(c *gin.Context) { c.Header("X-Group", "test") }).
			GET("/items", func(c *gin.Context) { c.Status(http.StatusOK) }).
			RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, http.MethodGet, "/api/v1/test/items")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "test", w.Header().Get("X-Group"))
	})
}
