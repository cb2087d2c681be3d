package inbuilt

import (
	"github.com/indigo-web/minihttp/http"
	"github.com/indigo-web/minihttp/http/status"
)

// AllErrors is the key of the error handler used when no code-specific one is set.
const AllErrors status.Code = 0

func newErrorHandlers() map[status.Code]Handler {
	return map[status.Code]Handler{
		AllErrors: genericErrorHandler,
	}
}

func genericErrorHandler(request *http.Request) *http.Response {
	return http.Error(request, request.Env.Error)
}
