package headers

import (
	"strings"

	"github.com/indigo-web/utils/strcomp"
)

// Well-known header names, as they are rendered into responses.
const (
	AcceptEncoding  = "Accept-Encoding"
	ContentEncoding = "Content-Encoding"
	ContentLength   = "Content-Length"
	ContentType     = "Content-Type"
	UserAgent       = "User-Agent"
)

type Header struct {
	Key, Value string
}

// Headers is an ordered set of header pairs. Lookups are case-insensitive. Duplicate
// keys are allowed when added via Add, which is what the parser does; Set instead treats
// the key as unique and is what responses use.
type Headers struct {
	pairs []Header
}

// NewPrealloc returns an instance with pre-allocated underlying storage
func NewPrealloc(n int) *Headers {
	return &Headers{
		pairs: make([]Header, 0, n),
	}
}

func New() *Headers {
	return NewPrealloc(0)
}

// NewFromPairs builds headers from a flat key-value list. Odd-length lists lose
// their last element.
func NewFromPairs(kv ...string) *Headers {
	h := NewPrealloc(len(kv) / 2)
	for i := 0; i+1 < len(kv); i += 2 {
		h.Add(kv[i], kv[i+1])
	}

	return h
}

// Add appends a new pair, regardless of whether the key is already presented
func (h *Headers) Add(key, value string) *Headers {
	h.pairs = append(h.pairs, Header{
		Key:   key,
		Value: value,
	})
	return h
}

// Set replaces the value of the first pair matching the key. If there is no such pair,
// a new one is appended, so the first-seen position of the key is preserved
func (h *Headers) Set(key, value string) *Headers {
	if i := h.index(key); i != -1 {
		h.pairs[i].Value = value
		return h
	}

	return h.Add(key, value)
}

// Remove deletes the first pair matching the key. Nothing happens if there is none
func (h *Headers) Remove(key string) *Headers {
	if i := h.index(key); i != -1 {
		h.pairs = append(h.pairs[:i], h.pairs[i+1:]...)
	}

	return h
}

// Value returns the first value corresponding to the key, or an empty string
func (h *Headers) Value(key string) string {
	return h.ValueOr(key, "")
}

// ValueOr returns either the first value corresponding to the key or the fallback
func (h *Headers) ValueOr(key, or string) string {
	value, found := h.Get(key)
	if !found {
		return or
	}

	return value
}

// Get returns the first value corresponding to the key and whether it was found
func (h *Headers) Get(key string) (string, bool) {
	if i := h.index(key); i != -1 {
		return h.pairs[i].Value, true
	}

	return "", false
}

// Values returns all values by the key in the order they were added. Returns nil if
// the key doesn't exist
func (h *Headers) Values(key string) (values []string) {
	for _, pair := range h.pairs {
		if strcomp.EqualFold(pair.Key, key) {
			values = append(values, pair.Value)
		}
	}

	return values
}

// Has indicates, whether there's an entry of the key
func (h *Headers) Has(key string) bool {
	return h.index(key) != -1
}

// Tokens splits every value of the key by commas and returns trimmed, non-empty
// tokens. Used for list-based headers like Accept-Encoding
func (h *Headers) Tokens(key string) (tokens []string) {
	for _, value := range h.Values(key) {
		for _, token := range strings.Split(value, ",") {
			if token = strings.TrimSpace(token); len(token) > 0 {
				tokens = append(tokens, token)
			}
		}
	}

	return tokens
}

func (h *Headers) Len() int {
	return len(h.pairs)
}

// Unwrap reveals the underlying storage. It must not be modified
func (h *Headers) Unwrap() []Header {
	return h.pairs
}

func (h *Headers) index(key string) int {
	for i, pair := range h.pairs {
		if strcomp.EqualFold(key, pair.Key) {
			return i
		}
	}

	return -1
}
