package config

import (
	"time"
)

type (
	NET struct {
		// ReadBufferSize is a size of buffer in bytes which will be used to read from
		// socket.
		ReadBufferSize int `json:"read_buffer_size"`
		// ReadTimeout is the idle timeout applied before every socket read. A client
		// staying silent for longer gets its connection answered with an error and closed.
		ReadTimeout time.Duration `json:"read_timeout"`
		// WriteTimeout bounds writing the response. Zero disables it.
		WriteTimeout time.Duration `json:"write_timeout"`
	}

	Headers struct {
		// MaxSpace limits the size of the whole meta block (request line, headers and
		// the terminating blank line) in bytes.
		MaxSpace int `json:"max_space"`
		// MaxNumber is the maximal number of header lines allowed in a single request.
		MaxNumber int `json:"max_number"`
		// Prealloc is the initial capacity of request headers storage.
		Prealloc int `json:"prealloc"`
	}

	Body struct {
		// MaxSize is the maximal value of Content-Length accepted. Greater values are
		// rejected before any body byte is read.
		MaxSize int64 `json:"max_size"`
	}

	Pool struct {
		// Workers is the number of connections served simultaneously. Must be positive.
		Workers int `json:"workers"`
	}

	Storage struct {
		// Root is the directory files are stored in. Created if missing.
		Root string `json:"root"`
	}
)

// Config holds settings used across various parts of the server, mainly restrictions,
// limitations and pre-allocations.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	NET     NET     `json:"net"`
	Headers Headers `json:"headers"`
	Body    Body    `json:"body"`
	Pool    Pool    `json:"pool"`
	Storage Storage `json:"storage"`
}

// Default returns default config.
func Default() *Config {
	return &Config{
		NET: NET{
			ReadBufferSize: 4 * 1024,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
		},
		Headers: Headers{
			MaxSpace:  16 * 1024,
			MaxNumber: 100,
			Prealloc:  10,
		},
		Body: Body{
			MaxSize: 64 * 1024 * 1024,
		},
		Pool: Pool{
			Workers: 4,
		},
		Storage: Storage{
			Root: "file_directory",
		},
	}
}
