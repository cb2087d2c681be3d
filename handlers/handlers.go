// Package handlers implements the endpoints the server exposes.
package handlers

import (
	"errors"

	"github.com/indigo-web/minihttp/http"
	"github.com/indigo-web/minihttp/http/headers"
	"github.com/indigo-web/minihttp/http/mime"
	"github.com/indigo-web/minihttp/http/status"
	"github.com/indigo-web/minihttp/router/inbuilt"
	"github.com/indigo-web/minihttp/storage"
)

const (
	echoPrefix  = "/echo/"
	filesPrefix = "/files/"

	unknownUserAgent = "Unknown"
)

// Register binds all the endpoints to the router.
func Register(r *inbuilt.Router, store storage.Store) *inbuilt.Router {
	files := Files{Store: store}

	return r.
		Get("/", Home).
		Get("/user-agent", UserAgent).
		GetPrefix(echoPrefix, Echo).
		GetPrefix(filesPrefix, files.Get).
		PostPrefix(filesPrefix, files.Post)
}

// Home answers with an empty 200 OK.
func Home(request *http.Request) *http.Response {
	return http.Respond(request)
}

// Echo answers with the path remainder as it was received, without decoding it.
func Echo(request *http.Request) *http.Response {
	return request.Respond().
		ContentType(mime.Plain).
		String(request.Env.Vars)
}

// UserAgent answers with the User-Agent header value, or Unknown if it's missing.
func UserAgent(request *http.Request) *http.Response {
	return request.Respond().
		ContentType(mime.Plain).
		String(request.Headers.ValueOr(headers.UserAgent, unknownUserAgent))
}

// Files serves and stores files, named by the path remainder.
type Files struct {
	Store storage.Store
}

func (f Files) Get(request *http.Request) *http.Response {
	name := request.Env.Vars

	exists, err := f.Store.Exists(name)
	switch {
	case errors.Is(err, storage.ErrBadName):
		return http.Error(request, status.ErrNotFound)
	case err != nil:
		return http.Error(request, err)
	case !exists:
		return http.Error(request, status.ErrNotFound)
	}

	data, err := f.Store.Read(name)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		// removed in between
		return http.Error(request, status.ErrNotFound)
	case err != nil:
		return http.Error(request, err)
	}

	return request.Respond().
		ContentType(mime.OctetStream).
		Bytes(data)
}

// Post replaces the file with the request body. Missing body results in an empty file.
func (f Files) Post(request *http.Request) *http.Response {
	err := f.Store.Write(request.Env.Vars, request.Body)
	switch {
	case errors.Is(err, storage.ErrBadName):
		return http.Error(request, status.ErrBadFileName)
	case err != nil:
		return http.Error(request, err)
	}

	return http.Code(request, status.Created)
}
