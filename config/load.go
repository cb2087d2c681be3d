package config

import (
	"fmt"
	"os"
	"time"
	"unsafe"

	json "github.com/json-iterator/go"
)

func init() {
	// durations are accepted both as Go duration strings ("30s") and as plain
	// nanosecond integers
	json.RegisterTypeDecoderFunc("time.Duration", func(ptr unsafe.Pointer, iter *json.Iterator) {
		switch iter.WhatIsNext() {
		case json.StringValue:
			d, err := time.ParseDuration(iter.ReadString())
			if err != nil {
				iter.ReportError("decode duration", err.Error())
				return
			}

			*(*time.Duration)(ptr) = d
		case json.NumberValue:
			*(*time.Duration)(ptr) = time.Duration(iter.ReadInt64())
		default:
			iter.ReportError("decode duration", "must be either a string or a number")
		}
	})
}

// Load reads a JSON file and overlays it on defaults. Fields missing in the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return Parse(data)
}

// Parse does the same as Load, but with the file already read.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := json.ConfigCompatibleWithStandardLibrary.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports the first setting that makes the server unable to run.
func (c *Config) Validate() error {
	switch {
	case c.Pool.Workers <= 0:
		return fmt.Errorf("config: pool.workers must be positive, got %d", c.Pool.Workers)
	case c.NET.ReadBufferSize <= 0:
		return fmt.Errorf("config: net.read_buffer_size must be positive, got %d", c.NET.ReadBufferSize)
	case c.NET.ReadTimeout <= 0:
		return fmt.Errorf("config: net.read_timeout must be positive, got %s", c.NET.ReadTimeout)
	case c.Headers.MaxSpace <= 0:
		return fmt.Errorf("config: headers.max_space must be positive, got %d", c.Headers.MaxSpace)
	case c.Headers.MaxNumber <= 0:
		return fmt.Errorf("config: headers.max_number must be positive, got %d", c.Headers.MaxNumber)
	case c.Body.MaxSize < 0:
		return fmt.Errorf("config: body.max_size must not be negative, got %d", c.Body.MaxSize)
	case len(c.Storage.Root) == 0:
		return fmt.Errorf("config: storage.root must not be empty")
	}

	return nil
}
