// Copyright 2015 The go-ethereum Authors
// This file is part of go-ethereum.
//
// go-ethereum is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-ethereum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-ethereum. If not, see <http://www.gnu.org/licenses/>.

// Package utils contains internal helper functions for hctracker commands.
package utils

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// These are all the command line flags hctracker supports. If you add to
// this list, please remember to include the flag in the appropriate command
// definition.
var (
	DataDirFlag = &cli.StringFlag{
		Name:     "datadir",
		Usage:    "Data directory for tracker databases",
		Value:    DefaultDataDir(),
		Category: "TRACKER",
	}
	ConfigFileFlag = &cli.StringFlag{
		Name:     "config",
		Usage:    "TOML configuration file listing the parent chains to track",
		Category: "TRACKER",
	}
	VerbosityFlag = &cli.IntFlag{
		Name:     "verbosity",
		Usage:    "Logging verbosity: 0=crit, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
		Value:    3,
		Category: "LOGGING",
	}
	LogJSONFlag = &cli.BoolFlag{
		Name:     "log.json",
		Usage:    "Format logs as JSON instead of a terminal-friendly format, even if a terminal is attached",
		Category: "LOGGING",
	}
	LogFileFlag = &cli.StringFlag{
		Name:     "log.file",
		Usage:    "Also write log records to a file, rotated with lumberjack, in addition to stderr",
		Category: "LOGGING",
	}
)

// DefaultDataDir returns the default data directory, keeping per-OS state
// under the user's home directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hctracker"
	}
	switch {
	case os.Getenv("XDG_DATA_HOME") != "":
		return os.Getenv("XDG_DATA_HOME") + "/hctracker"
	default:
		return home + "/.hctracker"
	}
}

// Fatalf formats a message to stderr and exits, following go-ethereum
// cmd/utils.Fatalf so command actions can report usage errors the same way.
func Fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
