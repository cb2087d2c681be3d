package codec

import (
	"bytes"
	"io"
	"sync"
)

var _ Codec = new(baseCodec)

type (
	instantiator = func() Compressor

	writeResetter interface {
		io.WriteCloser
		Reset(dst io.Writer)
	}
)

type baseCodec struct {
	token   string
	newInst instantiator
	pool    sync.Pool
}

func newBaseCodec(token string, newInst instantiator) *baseCodec {
	c := &baseCodec{
		token:   token,
		newInst: newInst,
	}
	c.pool.New = func() any {
		return newInst()
	}

	return c
}

func (b *baseCodec) Token() string {
	return b.token
}

func (b *baseCodec) New() Compressor {
	return b.newInst()
}

func (b *baseCodec) Compress(data []byte) ([]byte, error) {
	// compressed output of a small text is often bigger than the input itself
	buff := bytes.NewBuffer(make([]byte, 0, len(data)/2+64))
	c := b.pool.Get().(Compressor)
	defer b.pool.Put(c)

	c.ResetCompressor(buff)
	if _, err := c.Write(data); err != nil {
		return nil, err
	}

	if err := c.Close(); err != nil {
		return nil, err
	}

	return buff.Bytes(), nil
}

var _ Compressor = new(baseInstance)

type baseInstance struct {
	w   writeResetter
	dst io.Closer
}

func newBaseInstance(newEncoder func() writeResetter) instantiator {
	return func() Compressor {
		return &baseInstance{w: newEncoder()}
	}
}

func (b *baseInstance) ResetCompressor(w io.Writer) {
	b.w.Reset(w)
	b.dst = nil

	if c, ok := w.(io.Closer); ok {
		b.dst = c
	}
}

func (b *baseInstance) Write(p []byte) (n int, err error) {
	return b.w.Write(p)
}

// Close flushes the compressor and closes the destination, if it's closable
func (b *baseInstance) Close() error {
	if err := b.w.Close(); err != nil {
		return err
	}

	if b.dst != nil {
		return b.dst.Close()
	}

	return nil
}
