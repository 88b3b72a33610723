package common

import (
	"io"

	"github.com/sirupsen/logrus"
)

// ConfigureLogger sets up the logger shared by the command line tools:
// plain text on w, info level unless debug is requested.
func ConfigureLogger(logger *logrus.Logger, w io.Writer, tool string, debug bool) {
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
	})
	logger.SetLevel(logrus.InfoLevel)
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	logger.ReplaceHooks(make(logrus.LevelHooks))
	logger.AddHook(&ToolHook{Tool: tool})
}
