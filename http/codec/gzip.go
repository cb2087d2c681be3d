package codec

import (
	"github.com/klauspost/compress/gzip"
)

// GZIP is shared across all the responses. Compressors are pooled inside.
var GZIP = NewGZIP()

func NewGZIP() Codec {
	return newBaseCodec("gzip", newBaseInstance(func() writeResetter {
		// the error is returned only for invalid levels
		w, _ := gzip.NewWriterLevel(nil, gzip.DefaultCompression)
		return w
	}))
}
