package inbuilt

import (
	"testing"

	"github.com/indigo-web/minihttp/http"
	"github.com/indigo-web/minihttp/http/headers"
	"github.com/indigo-web/minihttp/http/method"
	"github.com/indigo-web/minihttp/http/status"
	"github.com/stretchr/testify/require"
)

func getRequest(m, path string) *http.Request {
	request := http.NewRequest(headers.New(), nil)
	request.Method, request.Path, request.Proto = m, path, "HTTP/1.1"
	return request
}

func varsHandler(request *http.Request) *http.Response {
	return http.String(request, request.Env.Vars)
}

func getRouter(t *testing.T) *Router {
	r := New().
		Get("/", http.Respond).
		Get("/files", http.Respond).
		Post("/upload", func(request *http.Request) *http.Response {
			return http.Code(request, status.Created)
		}).
		GetPrefix("/echo/", varsHandler).
		GetPrefix("/files/", varsHandler).
		GetPrefix("/files/special/", func(request *http.Request) *http.Response {
			return http.String(request, "special "+request.Env.Vars)
		})

	require.NoError(t, r.OnStart())
	return r
}

func TestRouter(t *testing.T) {
	r := getRouter(t)

	t.Run("static", func(t *testing.T) {
		resp := r.OnRequest(getRequest("GET", "/"))
		require.Equal(t, status.OK, resp.Reveal().Code)
		require.Empty(t, resp.Body())

		resp = r.OnRequest(getRequest("POST", "/upload"))
		require.Equal(t, status.Created, resp.Reveal().Code)
	})

	t.Run("static wins over prefix", func(t *testing.T) {
		resp := r.OnRequest(getRequest("GET", "/files"))
		require.Equal(t, status.OK, resp.Reveal().Code)
		require.Empty(t, resp.Body())
	})

	t.Run("prefix", func(t *testing.T) {
		request := getRequest("GET", "/echo/hello%20world")
		resp := r.OnRequest(request)
		require.Equal(t, status.OK, resp.Reveal().Code)
		require.Equal(t, "hello%20world", string(resp.Body()))
		require.Equal(t, "hello%20world", request.Env.Vars)
	})

	t.Run("empty remainder", func(t *testing.T) {
		resp := r.OnRequest(getRequest("GET", "/echo/"))
		require.Equal(t, status.OK, resp.Reveal().Code)
		require.Empty(t, resp.Body())
	})

	t.Run("longest prefix", func(t *testing.T) {
		resp := r.OnRequest(getRequest("GET", "/files/special/x"))
		require.Equal(t, "special x", string(resp.Body()))

		resp = r.OnRequest(getRequest("GET", "/files/plain"))
		require.Equal(t, "plain", string(resp.Body()))
	})

	t.Run("not found", func(t *testing.T) {
		for _, path := range []string{"/nope", "/echo", "//", "/user-agent"} {
			resp := r.OnRequest(getRequest("GET", path))
			require.Equal(t, status.NotFound, resp.Reveal().Code, path)
			require.Empty(t, resp.Body())
		}

		resp := r.OnRequest(getRequest("POST", "/"))
		require.Equal(t, status.NotFound, resp.Reveal().Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		for _, m := range []string{"PUT", "DELETE", "HEAD", "get", "BREW"} {
			resp := r.OnRequest(getRequest(m, "/"))
			require.Equal(t, status.MethodNotAllowed, resp.Reveal().Code, m)
			require.Empty(t, resp.Body())
		}
	})
}

func TestRouter_Errors(t *testing.T) {
	t.Run("generic", func(t *testing.T) {
		r := getRouter(t)
		resp := r.OnError(getRequest("GET", "/"), status.ErrBadRequest)
		require.Equal(t, status.BadRequest, resp.Reveal().Code)
		require.Empty(t, resp.Body())

		resp = r.OnError(getRequest("GET", "/"), status.ErrTruncatedBody)
		require.Equal(t, status.InternalServerError, resp.Reveal().Code)
		require.Equal(t, status.ErrTruncatedBody.Error(), string(resp.Body()))
	})

	t.Run("custom", func(t *testing.T) {
		r := getRouter(t).RouteError(status.NotFound, func(request *http.Request) *http.Response {
			return http.Code(request, status.NotFound).String("nothing here")
		})

		resp := r.OnRequest(getRequest("GET", "/nope"))
		require.Equal(t, status.NotFound, resp.Reveal().Code)
		require.Equal(t, "nothing here", string(resp.Body()))
	})
}

func TestRouter_Duplicates(t *testing.T) {
	r := New().Get("/", http.Respond).Get("/", http.Respond)
	require.Error(t, r.OnStart())

	r = New().GetPrefix("/a/", http.Respond).GetPrefix("/a/", http.Respond)
	require.Error(t, r.OnStart())

	r = New().Route(method.GET, "/", http.Respond).Route(method.POST, "/", http.Respond)
	require.NoError(t, r.OnStart())
}
