package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"unicode"

	"github.com/naoina/toml"
	"github.com/urfave/cli/v2"

	"github.com/aeternity/hctracker/cmd/utils"
	"github.com/aeternity/hctracker/parent/parentconfig"
)

// tomlSettings makes struct field names and TOML keys match exactly,
// instead of toml's default case-insensitive folding.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://godoc.org/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

// hctrackerConfig is the top-level shape of the TOML configuration file: one
// tracker instance per configured parent chain (spec §2).
type hctrackerConfig struct {
	DataDir string
	Tracker []parentconfig.Config
}

func loadConfig(file string, cfg *hctrackerConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

func defaultConfig() hctrackerConfig {
	return hctrackerConfig{
		DataDir: utils.DefaultDataDir(),
	}
}

// loadBaseConfig loads hctrackerConfig from the --config file, if any, then
// applies command line flag overrides on top of it.
func loadBaseConfig(ctx *cli.Context) hctrackerConfig {
	cfg := defaultConfig()

	if file := ctx.String(utils.ConfigFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			utils.Fatalf("%v", err)
		}
	}

	if ctx.IsSet(utils.DataDirFlag.Name) {
		cfg.DataDir = ctx.String(utils.DataDirFlag.Name)
	}

	for i := range cfg.Tracker {
		if cfg.Tracker[i].DataDir == "" {
			cfg.Tracker[i].DataDir = cfg.DataDir
		}
	}

	return cfg
}
