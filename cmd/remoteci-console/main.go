// Copyright 2026 The Remote CI Authors
// SPDX-License-Identifier: Apache-2.0

// remoteci-console is a terminal admin console for a Remote CI job
// service. It shows live service stats, the job history with per-user
// filtering, and the storage quota overview, and manages per-user
// special quotas through the service's admin API.
//
// Reads need no credential. Admin mutations use a bearer token that
// is requested interactively the first time it is needed, held for
// the session, and dropped the moment the server rejects it.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/remote-ci/console/lib/ciapi"
	"github.com/remote-ci/console/lib/config"
	"github.com/remote-ci/console/lib/consoleui"
	"github.com/remote-ci/console/lib/credential"
	"github.com/remote-ci/console/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var serverURL string
	var logOutput string

	flagSet := pflag.NewFlagSet("remoteci-console", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to config file (YAML or JSONC)")
	flagSet.StringVar(&serverURL, "server", "", "Remote CI server URL (overrides config)")
	flagSet.StringVar(&logOutput, "log-output", "", "write JSON log records to this file (in addition to TUI display)")
	flagSet.BoolP("help", "h", false, "show help")

	// Handle --version before flag parsing so it works even when the
	// remaining arguments would not parse.
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("remoteci-console")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}

	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	configuration, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if serverURL != "" {
		configuration.ServerURL = serverURL
	}
	if logOutput != "" {
		configuration.LogOutput = logOutput
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("stdout is not a terminal; the console needs an interactive TTY")
	}

	// Warnings and errors surface in the TUI status bar rather than on
	// stderr, which would corrupt the alt-screen display. The optional
	// rotating file log captures everything for post-mortem debugging.
	tuiHandler := consoleui.NewTUILogHandler(slog.LevelWarn)
	var logger *slog.Logger
	if configuration.LogOutput != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   configuration.LogOutput,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		}
		defer fileWriter.Close()
		fileHandler := slog.NewJSONHandler(fileWriter, &slog.HandlerOptions{Level: slog.LevelDebug})
		logger = slog.New(fanoutHandler{tuiHandler, fileHandler})
	} else {
		logger = slog.New(tuiHandler)
	}

	var store *credential.Store
	if configuration.CredentialPath != "" {
		store = credential.NewStoreAt(configuration.CredentialPath)
	} else {
		store = credential.NewStore()
	}

	client := ciapi.NewClient(configuration.ServerURL, http.DefaultClient, logger)
	broker := consoleui.NewPromptBroker()
	gateway := ciapi.NewGateway(client, store, broker)

	model := consoleui.NewModel(consoleui.Options{
		Client:       client,
		Gateway:      gateway,
		PollInterval: configuration.PollInterval(),
		PageSize:     configuration.PageSize,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	broker.SetProgram(program)
	tuiHandler.SetProgram(program)

	logger.Info("console starting", "server", configuration.ServerURL)
	_, err = program.Run()
	return err
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Remote CI admin console: interactive terminal UI for job history
and storage quota management.

Reads (stats, jobs, quota) poll the server every few seconds and need
no credential. Admin operations prompt for an API token on first use;
the token is held for this login session only.

Usage:
  remoteci-console [flags]

Examples:
  # Connect to the default server (http://127.0.0.1:5000)
  remoteci-console

  # Connect to a specific server
  remoteci-console --server https://ci.example.com

  # Use a config file and keep a debug log
  remoteci-console --config console.yaml --log-output console.log

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}

// fanoutHandler is a slog.Handler that sends each record to multiple
// underlying handlers. A record is enabled if any sub-handler is
// enabled for that level.
type fanoutHandler []slog.Handler

func (handlers fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (handlers fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range handlers {
		if handler.Enabled(ctx, record.Level) {
			if err := handler.Handle(ctx, record); err != nil {
				return err
			}
		}
	}
	return nil
}

func (handlers fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := make(fanoutHandler, len(handlers))
	for index, handler := range handlers {
		derived[index] = handler.WithAttrs(attrs)
	}
	return derived
}

func (handlers fanoutHandler) WithGroup(name string) slog.Handler {
	derived := make(fanoutHandler, len(handlers))
	for index, handler := range handlers {
		derived[index] = handler.WithGroup(name)
	}
	return derived
}
