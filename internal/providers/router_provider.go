package providers

import (
	"net/http"
	"welcomer/internal/structures"
)

type RouterProviderInterface interface {
	Get(url string, handler http.Handler)
	Post(url string, handler http.Handler)
	GetRoutes() []structures.Route
}

type RouterProvider struct {
	logger Logger
	routes []structures.Route
}

func (rp *RouterProvider) Get(url string, handler http.Handler) {
	rp.add(http.MethodGet, url, handler)
}

func (rp *RouterProvider) Post(url string, handler http.Handler) {
	rp.add(http.MethodPost, url, handler)
}

func (rp *RouterProvider) GetRoutes() []structures.Route {
	return rp.routes
}

// add merges handlers registered for the same path under different methods,
// since http.ServeMux accepts a pattern only once.
func (rp *RouterProvider) add(method, url string, handler http.Handler) {
	for i, route := range rp.routes {
		if route.Url == url {
			rp.routes[i].Handler = methodHandler(rp.logger, method, handler, route.Handler)
			return
		}
	}
	rp.routes = append(rp.routes, structures.Route{
		Url:     url,
		Handler: methodHandler(rp.logger, method, handler, nil),
	})
}

func NewRouterProvider(logger Logger) RouterProviderInterface {
	return &RouterProvider{logger: logger}
}

func methodHandler(logger Logger, method string, handler, fallback http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			if fallback != nil {
				fallback.ServeHTTP(w, r)
				return
			}
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		logger.Debugf(GetLogTypeByRequestType(r.Method), "%s %s", r.Method, r.URL.RequestURI())
		handler.ServeHTTP(w, r)
	})
}
