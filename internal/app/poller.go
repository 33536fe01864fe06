package app

import (
	"context"
	"log"
	"time"

	"github.com/roostlabs/preen/internal/roost"
	"github.com/roostlabs/preen/internal/state"
)

const (
	defaultPollInterval = 30 * time.Second
	maxBackoff          = 5 * time.Minute
)

// StartPoller launches a background goroutine that refreshes the store at a
// fixed cadence, backing off exponentially while the server is unreachable.
// It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, client roost.Service, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		for {
			_ = refresh(ctx, store, client)

			wait := calculateBackoff(store.Snapshot().ConsecutiveFailures, interval)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
}

// calculateBackoff doubles the base interval per consecutive failure,
// capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	wait := base
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}

func refresh(ctx context.Context, store *state.Store, client roost.Service) error {
	profile, err := client.FetchProfile(ctx)
	if err != nil {
		store.Update(nil, nil, err)
		log.Printf("profile poll failed: %v", err)
		return err
	}
	settings, err := client.FetchSettings(ctx)
	if err != nil {
		store.Update(nil, nil, err)
		log.Printf("settings poll failed: %v", err)
		return err
	}
	store.Update(profile, settings, nil)
	return nil
}
