package main

import (
	"github.com/kataras/golog"
)

// logger is shared by the HTTP and stream handlers. The search engine itself
// never logs.
var logger = golog.New()

// configureLogger applies the log section of the config
func configureLogger(cfg LogConfig) {
	logger.SetPrefix(cfg.Prefix)
	logger.SetLevel(cfg.Level)
}
