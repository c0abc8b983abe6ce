package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(h gin.HandlerFunc) *gin.Engine {
		r := gin.New()
		r.Use(ErrorHandler())
		r.GET("/", h)
		return r
	}

	t.Run("should turn a panic into a JSON 500", func(t *testing.T) {
		r := newRouter(func(c *gin.Context) { panic("boom") })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())
	})

	t.Run("should render an attached error", func(t *testing.T) {
		r := newRouter(func(c *gin.Context) {
			c.Status(http.StatusBadGateway)
			_ = c.Error(errors.New("catalog unavailable"))
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.JSONEq(t, `{"error":"catalog unavailable"}`, w.Body.String())
	})

	t.Run("should leave written responses alone", func(t *testing.T) {
		r := newRouter(func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"results": []string{}})
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"results":[]}`, w.Body.String())
	})
}
