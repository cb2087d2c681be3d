package dummy

import (
	"io"
	"net"

	"github.com/indigo-web/minihttp/internal/server/tcp"
)

var _ tcp.Client = new(Client)

// Client returns the pieces of data it was initialised with one by one, and then the
// final error (io.EOF by default). Everything written is kept in Written
type Client struct {
	data     [][]byte
	pending  []byte
	err      error
	writeErr error
	Written  []byte
	Closed   bool
}

func NewClient(data ...[]byte) *Client {
	return &Client{
		data: data,
		err:  io.EOF,
	}
}

// FromString splits the raw string into pieces of n bytes each. Non-positive n means
// a single piece.
func FromString(raw string, n int) *Client {
	if n <= 0 || n > len(raw) {
		n = len(raw)
	}

	var pieces [][]byte
	for i := 0; i < len(raw); i += n {
		pieces = append(pieces, []byte(raw[i:min(i+n, len(raw))]))
	}

	return NewClient(pieces...)
}

// Fail makes the client return the error instead of io.EOF once the data is exhausted
func (c *Client) Fail(err error) *Client {
	c.err = err
	return c
}

// FailWrites makes every write fail with the error
func (c *Client) FailWrites(err error) *Client {
	c.writeErr = err
	return c
}

func (c *Client) Read() ([]byte, error) {
	if len(c.pending) > 0 {
		pending := c.pending
		c.pending = nil

		return pending, nil
	}

	if len(c.data) == 0 {
		return nil, c.err
	}

	piece := c.data[0]
	c.data = c.data[1:]

	return piece, nil
}

func (c *Client) Unread(b []byte) {
	c.pending = b
}

func (c *Client) Write(b []byte) error {
	if c.writeErr != nil {
		return c.writeErr
	}

	c.Written = append(c.Written, b...)
	return nil
}

func (*Client) Remote() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 4221}
}

func (c *Client) Close() error {
	c.Closed = true
	return nil
}
