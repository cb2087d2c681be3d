package router

import (
	"github.com/indigo-web/minihttp/http"
)

// Router decides what to answer. OnRequest is called for every successfully parsed
// request, OnError when the request couldn't be received. Returned nil response is
// interpreted as the default 200 OK one.
type Router interface {
	OnStart() error
	OnRequest(request *http.Request) *http.Response
	OnError(request *http.Request, err error) *http.Response
}
