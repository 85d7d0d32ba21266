// Package main provides the interactive hub launcher.
package main

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/blockhaven/craftctl/internal/api"
	"github.com/blockhaven/craftctl/internal/config"
	"github.com/blockhaven/craftctl/internal/engine"
	"github.com/blockhaven/craftctl/internal/tui"
	"github.com/blockhaven/craftctl/internal/ui"
)

// runHub wires the sync engine, the log stream, and the config watcher
// together and hands the terminal to the interactive hub.
//
// Parameters:
//   - cmd: The cobra command being executed
//
// Returns:
//   - error: Any error from startup or the hub itself
func runHub(cmd *cobra.Command) error {
	cfg, cfgPath := config.LoadOrDefault()

	baseURL := cfg.Server.URL
	if override, _ := cmd.Root().PersistentFlags().GetString("server"); override != "" {
		baseURL = override
	}
	client := api.NewClient(baseURL, cfg.Server.Token)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	eng := engine.New(client, engine.Options{
		PollInterval: cfg.PollInterval(),
		Aliases:      config.NewAliasTable(cfg.Aliases),
	})
	defer eng.Close()

	// Seed the registry before opening the hub so a dead daemon surfaces
	// as an error, not an empty screen.
	if err := eng.Load(ctx); err != nil {
		ui.PrintError("Cannot reach craftd: %v", err)
		ui.PrintDim("Is craftd running? Try: craftctl doctor")
		return err
	}

	go func() {
		if err := eng.Run(ctx); err != nil {
			log.Debug("poll loop exited", "err", err)
		}
	}()

	// Best-effort log stream; the hub works without it.
	stream := api.NewLogStreamClient()
	if err := stream.Connect(ctx, client.LogStreamURL()); err != nil {
		log.Debug("log stream unavailable", "err", err)
	} else {
		defer stream.Close()
		go eng.Ingest(stream.Events())
		go func() {
			for err := range stream.Errors() {
				log.Debug("log stream error", "err", err)
			}
		}()
	}

	// Pick up alias rule edits without restarting the hub.
	if cfgPath != "" {
		watcher, err := config.Watch(cfgPath, func(next *config.Config) {
			eng.SetAliasTable(config.NewAliasTable(next.Aliases))
		})
		if err != nil {
			log.Debug("config watch unavailable", "err", err)
		} else {
			defer watcher.Close()
		}
	}

	return tui.RunHub(eng, version)
}
