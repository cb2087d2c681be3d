package codec

import "io"

type Codec interface {
	// Token returns a coding token associated with the codec itself.
	Token() string
	// New returns a fresh compressor instance.
	New() Compressor
	// Compress encodes the whole data at once using a pooled compressor.
	Compress(data []byte) ([]byte, error)
}

type Compressor interface {
	io.WriteCloser
	ResetCompressor(w io.Writer)
}
