package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"unicode/utf8"
)

var (
	// DefaultMaxMessageSize is 1MB, enough for every rule catalog seen in practice.
	DefaultMaxMessageSize = 1 << 20
	// EnvMaxMessageSize is the environment variable to override the default.
	EnvMaxMessageSize = "RECOLOR_MAX_MESSAGE_SIZE"
)

var (
	ErrMessageTooLarge = errors.New("message exceeds maximum allowed size")
	ErrInvalidUTF8     = errors.New("message contains invalid UTF-8 sequences")
)

// SanitizeMessage rejects an inbound line that is too large or not valid UTF-8.
// Lines are rejected, never truncated.
func SanitizeMessage(line []byte) error {
	limit := maxMessageSize()
	if len(line) > limit {
		return fmt.Errorf("%w: size=%d limit=%d", ErrMessageTooLarge, len(line), limit)
	}
	if !utf8.Valid(line) {
		return ErrInvalidUTF8
	}
	return nil
}

func maxMessageSize() int {
	if val := os.Getenv(EnvMaxMessageSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxMessageSize
}
