package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New builds a logger writing to w. format "json" emits one JSON object per
// line; anything else uses the human-readable console writer.
func New(w io.Writer, level, format string) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	out := w
	if !strings.EqualFold(strings.TrimSpace(format), "json") {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: w != os.Stderr && w != os.Stdout}
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// OpenFile returns a logger appending to path, or a disabled logger when path
// is empty. The returned close function is always safe to call.
func OpenFile(path, level string) (zerolog.Logger, func() error, error) {
	if strings.TrimSpace(path) == "" {
		return zerolog.Nop(), func() error { return nil }, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), func() error { return nil }, err
	}
	return New(f, level, "json"), f.Close, nil
}
