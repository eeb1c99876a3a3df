// Command hctracker runs one or more parent-chain trackers (spec.md §1-§2)
// as configured by a TOML file, mirroring each configured parent chain into
// its own local store and announcing new tips over an AnnounceBus.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/aeternity/hctracker/cmd/utils"
	"github.com/aeternity/hctracker/parent"
	"github.com/aeternity/hctracker/parent/ethconnector"
	"github.com/aeternity/hctracker/parent/parentconfig"
	"github.com/aeternity/hctracker/parent/parenttest"
	"github.com/aeternity/hctracker/parent/rawdbstore"
)

const clientIdentifier = "hctracker"

var app = &cli.App{
	Name:  clientIdentifier,
	Usage: "mirror parent chains into a local content-addressed store",
	Flags: []cli.Flag{
		utils.ConfigFileFlag,
		utils.DataDirFlag,
		utils.VerbosityFlag,
		utils.LogJSONFlag,
		utils.LogFileFlag,
	},
	Action: run,
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	cfg := loadBaseConfig(ctx)
	if len(cfg.Tracker) == 0 {
		utils.Fatalf("no [[Tracker]] entries found in configuration")
	}

	trackers, bus, err := makeTrackers(cfg)
	if err != nil {
		return err
	}

	for _, t := range trackers {
		if err := t.Start(); err != nil {
			return fmt.Errorf("starting tracker: %w", err)
		}
	}
	log.Info("All trackers started", "count", len(trackers))

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	log.Info("Shutting down trackers")
	for _, t := range trackers {
		if err := t.Stop(); err != nil {
			log.Error("Error stopping tracker", "err", err)
		}
	}
	bus.Close()
	return nil
}

// makeTrackers builds one parent.Tracker per configured entry, each with its
// own store opened under cfg.DataDir/<name> and its own connector chosen by
// ConnectorID, all sharing one AnnounceBus.
func makeTrackers(cfg hctrackerConfig) ([]*parent.Tracker, *parent.AnnounceBus, error) {
	bus := parent.NewAnnounceBus()

	trackers := make([]*parent.Tracker, 0, len(cfg.Tracker))
	for _, tc := range cfg.Tracker {
		store, err := rawdbstore.New(storeDir(tc), tc.DatabaseCache, tc.DatabaseHandles)
		if err != nil {
			return nil, nil, fmt.Errorf("opening store for tracker %q: %w", tc.Name, err)
		}

		connector, err := makeConnector(tc.ConnectorID)
		if err != nil {
			return nil, nil, fmt.Errorf("tracker %q: %w", tc.Name, err)
		}

		t, err := parent.New(tc, connector, store, bus, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("tracker %q: %w", tc.Name, err)
		}
		trackers = append(trackers, t)
	}
	return trackers, bus, nil
}

func storeDir(tc parentconfig.Config) string {
	if tc.DataDir == "" {
		return ""
	}
	return tc.DataDir + "/" + tc.Name
}

// makeConnector resolves a connector id from the configuration to a
// concrete parent.Connector implementation. "mock" selects the in-memory
// fake from parent/parenttest, useful for dry-running a configuration
// without a live RPC endpoint.
func makeConnector(id string) (parent.Connector, error) {
	switch id {
	case "eth":
		return ethconnector.New(), nil
	case "mock":
		return parenttest.NewConnector(), nil
	default:
		return nil, fmt.Errorf("unknown connector id %q", id)
	}
}
