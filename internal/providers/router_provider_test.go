package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dummyHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	})
}

func TestRouterProvider_GetAddsRoute(t *testing.T) {
	rp := NewRouterProvider(&cacheTestLogger{})
	rp.Get("/test", dummyHandler("ok"))

	routes := rp.GetRoutes()
	require.Len(t, routes, 1)
	assert.Equal(t, "/test", routes[0].Url)
}

func TestRouterProvider_MultipleRoutes(t *testing.T) {
	rp := NewRouterProvider(&cacheTestLogger{})
	rp.Get("/a", dummyHandler("ok"))
	rp.Post("/b", dummyHandler("ok"))
	rp.Get("/c", dummyHandler("ok"))

	assert.Len(t, rp.GetRoutes(), 3)
}

func TestRouterProvider_SamePathMergesMethods(t *testing.T) {
	rp := NewRouterProvider(&cacheTestLogger{})
	rp.Get("/theme", dummyHandler("get"))
	rp.Post("/theme", dummyHandler("post"))

	routes := rp.GetRoutes()
	require.Len(t, routes, 1)

	for method, want := range map[string]string{http.MethodGet: "get", http.MethodPost: "post"} {
		rr := httptest.NewRecorder()
		routes[0].Handler.ServeHTTP(rr, httptest.NewRequest(method, "/theme", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, want, rr.Body.String())
	}

	rr := httptest.NewRecorder()
	routes[0].Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/theme", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestMethodHandler_CorrectMethod(t *testing.T) {
	handler := methodHandler(&cacheTestLogger{}, http.MethodGet, dummyHandler("ok"), nil)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestMethodHandler_WrongMethod(t *testing.T) {
	handler := methodHandler(&cacheTestLogger{}, http.MethodGet, dummyHandler("ok"), nil)

	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRouterProvider_PostRouteRejectsGet(t *testing.T) {
	rp := NewRouterProvider(&cacheTestLogger{})
	rp.Post("/submit", dummyHandler("ok"))

	route := rp.GetRoutes()[0]
	req := httptest.NewRequest(http.MethodGet, "/submit", nil)
	rr := httptest.NewRecorder()
	route.Handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
