package app

import (
	"context"
	"fmt"
	"time"

	"github.com/roostlabs/preen/internal/config"
	"github.com/roostlabs/preen/internal/prefs"
	"github.com/roostlabs/preen/internal/roost"
	"github.com/roostlabs/preen/internal/state"
	"github.com/roostlabs/preen/internal/ui"
)

// Options configure the preen application.
type Options struct {
	ConfigPath string
	ServerURL  string // overrides the configured server URL
	PrefsPath  string // empty uses default ~/.config/preen/prefs.toml
	PollEvery  int    // seconds; zero uses the configured value
}

// Run boots the preen TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.ServerURL != "" {
		cfg.ServerURL = opts.ServerURL
	}
	if cfg.ServerURL == "" {
		return fmt.Errorf("no server configured: set server_url in the config file, PREEN_SERVER, or -server")
	}
	if cfg.Token == "" {
		return fmt.Errorf("no token configured: set token in the config file or PREEN_TOKEN")
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	client, err := roost.NewClient(cfg.ServerURL, cfg.Token)
	if err != nil {
		return fmt.Errorf("init roost client: %w", err)
	}

	store := &state.Store{}

	interval := time.Duration(cfg.PollSeconds) * time.Second
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	// The form cannot seed without an initial snapshot; fail fast here
	// rather than presenting an empty editor.
	if err := refresh(ctx, store, client); err != nil {
		return fmt.Errorf("fetch account: %w", err)
	}

	// Keep the administrator settings fresh in the background.
	StartPoller(ctx, store, client, interval)

	uiOpts := ui.Options{
		Context:   ctx,
		Client:    client,
		Store:     store,
		ServerURL: cfg.ServerURL,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
	}
	return ui.Run(uiOpts)
}
