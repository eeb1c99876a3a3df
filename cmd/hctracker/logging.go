package main

import (
	"io"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

// setupLogging wires --verbosity/--log.json/--log.file into the default
// logger, following geth's convention: a terminal-format handler, colored
// on an attached tty and plain otherwise, or a JSON handler with
// --log.json, with an optional rotated log file (lumberjack) layered in as
// a second writer.
func setupLogging(ctx *cli.Context) error {
	level := log.FromLegacyLevel(ctx.Int("verbosity"))

	var writers []io.Writer
	useColor := !ctx.Bool("log.json") && isatty.IsTerminal(os.Stderr.Fd())
	if useColor {
		writers = append(writers, colorable.NewColorableStderr())
	} else {
		writers = append(writers, os.Stderr)
	}

	if path := ctx.String("log.file"); path != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   path,
			MaxSize:    100, // megabytes
			MaxBackups: 10,
			MaxAge:     30, // days
			Compress:   true,
		})
	}

	out := io.MultiWriter(writers...)
	var handler log.Handler
	if ctx.Bool("log.json") {
		handler = log.JSONHandler(out)
	} else {
		handler = log.NewTerminalHandler(out, useColor)
	}

	glogger := log.NewGlogHandler(handler)
	glogger.Verbosity(level)
	log.SetDefault(log.NewLogger(glogger))
	return nil
}
