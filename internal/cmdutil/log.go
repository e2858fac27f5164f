// internal/cmdutil/log.go
package cmdutil

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Warnf prints a one-line warning unless quiet is set.
func Warnf(dst io.Writer, quiet bool, format string, a ...any) {
	if quiet {
		return
	}
	_, _ = fmt.Fprintf(dst, "WARN: "+format+"\n", a...)
}

// NewLogger builds the stderr logger shared by the commands. quiet raises
// the level to error so warnings are suppressed, like Warnf.
func NewLogger(dst io.Writer, level logrus.Level, quiet bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(dst)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:    true,
		FullTimestamp:    true,
		DisableQuote:     true,
		QuoteEmptyFields: true,
	})
	if quiet && level > logrus.ErrorLevel {
		level = logrus.ErrorLevel
	}
	l.SetLevel(level)
	return l
}
