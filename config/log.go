// SPDX-License-Identifier: MIT

package config

import (
	"io"
	"log"
	"os"

	"github.com/natefinch/lumberjack"
)

// LogConfig is the [logging] section.
type LogConfig struct {
	Logfile string `toml:"logfile"`
	MaxSize int    `toml:"max_log_size"` // megabytes
	MaxAge  int    `toml:"max_log_age"`  // days
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// SetLogger sends stdlib log output to a rotating log file, or to stdout when
// no file is configured. The returned Closer releases the file.
func (c *LogConfig) SetLogger() io.Closer {
	if c == nil || c.Logfile == "" {
		log.SetOutput(os.Stdout)
		return nopCloser{}
	}
	l := &lumberjack.Logger{
		Filename: c.Logfile,
		MaxSize:  c.MaxSize,
		MaxAge:   c.MaxAge,
	}
	log.SetOutput(l)

	return l
}
