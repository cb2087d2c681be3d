package http1

import (
	"errors"
	"fmt"
	"io"

	"github.com/indigo-web/minihttp/config"
	"github.com/indigo-web/minihttp/http/status"
	"github.com/indigo-web/minihttp/internal/server/tcp"
)

// Body reads fixed-length request bodies. Chunked transfer encoding isn't supported, so
// a request without Content-Length has no body at all.
type Body struct {
	client  tcp.Client
	maxSize int64
}

func NewBody(client tcp.Client, cfg config.Body) *Body {
	return &Body{
		client:  client,
		maxSize: cfg.MaxSize,
	}
}

// Read returns exactly length bytes, blocking until all of them arrive. Bytes following
// the body are pushed back into the client. Nil is returned for zero length.
func (b *Body) Read(length int64) ([]byte, error) {
	if length == 0 {
		return nil, nil
	}

	if length > b.maxSize {
		return nil, status.ErrBodyTooLarge
	}

	body := make([]byte, 0, length)

	for int64(len(body)) < length {
		data, err := b.client.Read()
		if left := length - int64(len(body)); int64(len(data)) > left {
			b.client.Unread(data[left:])
			data = data[:left]
		}

		body = append(body, data...)
		if int64(len(body)) == length {
			break
		}

		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			return nil, status.ErrTruncatedBody
		default:
			return nil, fmt.Errorf("%w: %w", status.ErrTruncatedBody, err)
		}
	}

	return body, nil
}
