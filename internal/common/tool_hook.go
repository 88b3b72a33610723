package common

import (
	"github.com/sirupsen/logrus"
)

// ToolHook tags every log entry with the name of the running tool and the
// commit it was built from.
type ToolHook struct {
	Tool string
}

func (h *ToolHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *ToolHook) Fire(e *logrus.Entry) error {
	e.Data["tool"] = h.Tool
	e.Data["build_commit"] = BuildCommit

	return nil
}
