// Package clog configures the process-wide apex/log logger used throughout the
// server.
package clog

import (
	"os"

	"github.com/apex/log"
	"github.com/pkg/errors"
)

// Init installs the line handler on the global logger, writing to stdout, and
// sets its level. levelStr is one of debug, info, warn, error, fatal.
func Init(levelStr string) error {
	log.SetHandler(NewHandler(os.Stdout))

	level, err := log.ParseLevel(levelStr)
	if err != nil {
		return errors.Wrapf(err, "unknown log level %q", levelStr)
	}

	log.SetLevel(level)

	return nil
}
