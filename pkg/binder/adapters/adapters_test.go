package adapters

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gofiber/fiber/v2"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toyz/paramkit/pkg/binder"
	"github.com/toyz/paramkit/pkg/params"
)

func init() {
	// Set Gin to test mode to reduce noise in test output
	gin.SetMode(gin.TestMode)
}

type order struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

type orderController struct{}

func (orderController) Get(id int, expand bool, trace string) (map[string]any, error) {
	return map[string]any{"id": id, "expand": expand, "trace": trace}, nil
}

func (orderController) Create(o order) (order, error) {
	return o, nil
}

func newOrderHandlers(t *testing.T) (get, create binder.HandlerFunc) {
	t.Helper()
	reg := params.NewRegistry()
	owner := orderController{}

	require.NoError(t, reg.Declare(owner, "Get",
		params.At(0, params.UrlParam("id")),
		params.At(1, params.Query("expand")),
		params.At(2, params.Header("X-Trace", params.Options{Required: true})),
	))
	require.NoError(t, reg.Declare(owner, "Create",
		params.At(0, params.Body(params.Options{Required: true, Validator: func(v any) bool {
			return v.(order).Quantity > 0
		}})),
	))
	require.NoError(t, reg.Seal())

	b := binder.New(reg)
	return b.MustHandler(owner, "Get"), b.MustHandler(owner, "Create")
}

type serveFunc func(*http.Request) (int, string)

func ginServer(t *testing.T) serveFunc {
	get, create := newOrderHandlers(t)
	r := gin.New()
	r.GET("/orders/:id", Gin(get))
	r.POST("/orders", Gin(create))
	return func(req *http.Request) (int, string) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code, rec.Body.String()
	}
}

func echoServer(t *testing.T) serveFunc {
	get, create := newOrderHandlers(t)
	e := echo.New()
	e.GET("/orders/:id", Echo(get))
	e.POST("/orders", Echo(create))
	return func(req *http.Request) (int, string) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code, rec.Body.String()
	}
}

func fiberServer(t *testing.T) serveFunc {
	get, create := newOrderHandlers(t)
	app := fiber.New()
	app.Get("/orders/:id", Fiber(get))
	app.Post("/orders", Fiber(create))
	return func(req *http.Request) (int, string) {
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}
}

func TestAdapters(t *testing.T) {
	servers := map[string]func(*testing.T) serveFunc{
		"gin":   ginServer,
		"echo":  echoServer,
		"fiber": fiberServer,
	}

	for name, newServer := range servers {
		t.Run(name, func(t *testing.T) {
			serve := newServer(t)

			t.Run("binds url query and header", func(t *testing.T) {
				req := httptest.NewRequest(http.MethodGet, "/orders/7?expand=true", nil)
				req.Header.Set("X-Trace", "t-1")

				code, body := serve(req)
				assert.Equal(t, http.StatusOK, code)
				assert.JSONEq(t, `{"id":7,"expand":true,"trace":"t-1"}`, body)
			})

			t.Run("optional query absent", func(t *testing.T) {
				req := httptest.NewRequest(http.MethodGet, "/orders/7", nil)
				req.Header.Set("X-Trace", "t-1")

				code, body := serve(req)
				assert.Equal(t, http.StatusOK, code)
				assert.JSONEq(t, `{"id":7,"expand":false,"trace":"t-1"}`, body)
			})

			t.Run("missing required header", func(t *testing.T) {
				req := httptest.NewRequest(http.MethodGet, "/orders/7", nil)

				code, body := serve(req)
				assert.Equal(t, http.StatusBadRequest, code)
				assert.Contains(t, body, "missing required parameter")
				assert.Contains(t, body, "X-Trace")
			})

			t.Run("invalid url segment", func(t *testing.T) {
				req := httptest.NewRequest(http.MethodGet, "/orders/abc", nil)
				req.Header.Set("X-Trace", "t-1")

				code, _ := serve(req)
				assert.Equal(t, http.StatusBadRequest, code)
			})

			t.Run("binds body", func(t *testing.T) {
				req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"item":"tea","quantity":2}`))
				req.Header.Set("Content-Type", "application/json")

				code, body := serve(req)
				assert.Equal(t, http.StatusOK, code)
				assert.JSONEq(t, `{"item":"tea","quantity":2}`, body)
			})

			t.Run("body validator", func(t *testing.T) {
				req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"item":"tea","quantity":0}`))
				req.Header.Set("Content-Type", "application/json")

				code, body := serve(req)
				assert.Equal(t, http.StatusUnprocessableEntity, code)
				assert.Contains(t, body, "validation failed")
			})

			t.Run("missing body", func(t *testing.T) {
				req := httptest.NewRequest(http.MethodPost, "/orders", nil)
				req.Header.Set("Content-Type", "application/json")

				code, _ := serve(req)
				assert.Equal(t, http.StatusBadRequest, code)
			})
		})
	}
}

func TestGinRequestContext_RawObjects(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/raw", nil)

	rc := NewGinRequestContext(c)
	assert.Same(t, c.Request, rc.Request())
	assert.Equal(t, c, rc.Native())
	_, ok := rc.Response().(http.ResponseWriter)
	assert.True(t, ok)
	assert.False(t, rc.HasBody())
	assert.Equal(t, "/raw", rc.Path())
	assert.Equal(t, http.MethodGet, rc.Method())
}
