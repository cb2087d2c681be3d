package http

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"testing"

	"github.com/indigo-web/minihttp/http/headers"
	"github.com/indigo-web/minihttp/http/status"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

func requestWith(kv ...string) *Request {
	return NewRequest(headers.NewFromPairs(kv...), nil)
}

func gunzip(t *testing.T, data []byte) string {
	r, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	text, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(text)
}

func requireBodyInvariant(t *testing.T, resp *Response) {
	hdrs := resp.Headers()
	if len(resp.Body()) == 0 {
		require.False(t, hdrs.Has(headers.ContentLength))
		require.False(t, hdrs.Has(headers.ContentEncoding))
		return
	}

	require.Equal(t, strconv.Itoa(len(resp.Body())), hdrs.Value(headers.ContentLength))
}

func TestResponse_Headers(t *testing.T) {
	t.Run("set or add", func(t *testing.T) {
		resp := NewResponse().
			Header("X-First", "1").
			Header("X-Second", "2").
			Header("x-first", "3")

		require.Equal(t, []headers.Header{
			{"X-First", "3"},
			{"X-Second", "2"},
		}, resp.Headers().Unwrap())
	})

	t.Run("remove", func(t *testing.T) {
		resp := NewResponse().Header("A", "1").Header("B", "2").RemoveHeader("a").RemoveHeader("C")
		require.Equal(t, []headers.Header{{"B", "2"}}, resp.Headers().Unwrap())
	})

	t.Run("body headers are managed by body", func(t *testing.T) {
		resp := NewResponse().Header("Content-Length", "100").Header("content-encoding", "br")
		require.Zero(t, resp.Headers().Len())

		resp.String("hello").RemoveHeader(headers.ContentLength)
		require.Equal(t, "5", resp.Headers().Value(headers.ContentLength))
	})
}

func TestResponse_Body(t *testing.T) {
	t.Run("no context", func(t *testing.T) {
		resp := NewResponse().String("Hello, world!")
		require.Equal(t, "Hello, world!", string(resp.Body()))
		require.False(t, resp.Headers().Has(headers.ContentEncoding))
		requireBodyInvariant(t, resp)
	})

	t.Run("empty body removes headers", func(t *testing.T) {
		resp := requestWith("Accept-Encoding", "gzip").Respond().String("Hello")
		require.True(t, resp.Headers().Has(headers.ContentEncoding))

		resp.Bytes(nil)
		require.Nil(t, resp.Body())
		requireBodyInvariant(t, resp)

		resp.String("")
		requireBodyInvariant(t, resp)
	})

	t.Run("gzip negotiated", func(t *testing.T) {
		resp := requestWith("Accept-Encoding", "gzip, deflate").Respond().String("Hello, world!")
		require.Equal(t, "gzip", resp.Headers().Value(headers.ContentEncoding))
		require.Equal(t, "Hello, world!", gunzip(t, resp.Body()))
		requireBodyInvariant(t, resp)
	})

	t.Run("gzip case-insensitive", func(t *testing.T) {
		resp := requestWith("accept-encoding", "br , GZIP").Respond().String("Hello")
		require.Equal(t, "gzip", resp.Headers().Value(headers.ContentEncoding))
		require.Equal(t, "Hello", gunzip(t, resp.Body()))
	})

	for _, value := range []string{"identity", "deflate, br", "gzip;q=0.5", "gzipped"} {
		t.Run("not negotiated: "+value, func(t *testing.T) {
			resp := requestWith("Accept-Encoding", value).Respond().String("Hello")
			require.Equal(t, "Hello", string(resp.Body()))
			require.False(t, resp.Headers().Has(headers.ContentEncoding))
			requireBodyInvariant(t, resp)
		})
	}

	t.Run("no Accept-Encoding", func(t *testing.T) {
		resp := requestWith().Respond().String("Hello")
		require.Equal(t, "Hello", string(resp.Body()))
		require.False(t, resp.Headers().Has(headers.ContentEncoding))
	})

	t.Run("replacing body keeps headers consistent", func(t *testing.T) {
		resp := requestWith("Accept-Encoding", "gzip").Respond().
			ContentType("text/plain").
			String("first body").
			String("second")

		require.Equal(t, "second", gunzip(t, resp.Body()))
		require.Equal(t, []string{"text/plain"}, resp.Headers().Values(headers.ContentType))
		require.Len(t, resp.Headers().Values(headers.ContentLength), 1)
		requireBodyInvariant(t, resp)
	})
}

func TestResponse_Error(t *testing.T) {
	t.Run("client error", func(t *testing.T) {
		resp := NewResponse().String("stale").Error(status.ErrMalformedRequestLine)
		require.Equal(t, status.BadRequest, resp.Reveal().Code)
		require.Empty(t, resp.Body())
		requireBodyInvariant(t, resp)
	})

	t.Run("internal error", func(t *testing.T) {
		resp := NewResponse().Error(errors.New("disk is on fire"))
		require.Equal(t, status.InternalServerError, resp.Reveal().Code)
		require.Equal(t, "disk is on fire", string(resp.Body()))
		require.Equal(t, "text/plain", resp.Headers().Value(headers.ContentType))
		requireBodyInvariant(t, resp)
	})

	t.Run("server-side HTTPError keeps text", func(t *testing.T) {
		resp := NewResponse().Error(status.ErrTruncatedBody)
		require.Equal(t, status.InternalServerError, resp.Reveal().Code)
		require.Equal(t, status.ErrTruncatedBody.Error(), string(resp.Body()))
	})

	t.Run("nil", func(t *testing.T) {
		resp := NewResponse().Error(nil)
		require.Equal(t, status.OK, resp.Reveal().Code)
	})
}
