package log

import (
	"os"
	"sync"

	"github.com/rs/zerolog"

	phenoErrors "github.com/YuminosukeSato/phenogo/pkg/errors"
)

var (
	warnOnce   sync.Once
	warnLogger zerolog.Logger
)

// EnableZerologWarnings routes phenogo warnings (ConvergenceWarning,
// DroppedDataWarning, ...) through a zerolog console logger. Warning types
// implementing zerolog.LogObjectMarshaler are emitted as structured fields.
func EnableZerologWarnings() {
	warnOnce.Do(func() {
		warnLogger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			With().Timestamp().Logger()
	})
	phenoErrors.SetZerologWarnFunc(func(warning error) {
		ev := warnLogger.Warn()
		if marshaler, ok := warning.(zerolog.LogObjectMarshaler); ok {
			ev.EmbedObject(marshaler)
		}
		ev.Msg(warning.Error())
	})
}
