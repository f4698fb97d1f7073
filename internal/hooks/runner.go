package hooks

import (
	"context"
	"strings"
	"sync"

	"github.com/mark3labs/roomprefs/internal/logger"
)

// ModeChangeRunner fires on_mode_change hooks when a room's fetched mode
// differs from the one seen on the previous fetch. The first observation
// of a room only records its mode.
type ModeChangeRunner struct {
	ctx     context.Context
	cancel  context.CancelFunc
	hooks   []*HookConfig
	workDir string

	mu      sync.Mutex
	last    map[string]string
	stopped bool
	wg      sync.WaitGroup

	// OnOutput receives the combined output of each run. Optional.
	OnOutput func(vars Variables, output string)
}

// NewModeChangeRunner returns a runner for cfg. A nil cfg yields a runner
// that only tracks modes.
func NewModeChangeRunner(ctx context.Context, cfg *Config, workDir string) *ModeChangeRunner {
	ctx, cancel := context.WithCancel(ctx)
	r := &ModeChangeRunner{
		ctx:     ctx,
		cancel:  cancel,
		workDir: workDir,
		last:    make(map[string]string),
	}
	if cfg != nil {
		r.hooks = cfg.Hooks.OnModeChange
	}
	return r
}

// Observe records a fetched mode and starts the hooks in the background
// if it changed. It never blocks on the hooks themselves.
func (r *ModeChangeRunner) Observe(room, mode string, isDefault bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, seen := r.last[room]
	r.last[room] = mode

	if r.stopped || !seen || prev == mode || len(r.hooks) == 0 {
		return
	}

	vars := Variables{Room: room, Mode: mode, Default: isDefault}
	logger.Info("Room %s changed %s -> %s, running %d hook(s)", room, prev, mode, len(r.hooks))
	r.wg.Go(func() {
		output, err := ExecuteAll(r.ctx, r.hooks, r.workDir, vars)
		if err != nil {
			logger.Debug("Mode change hooks cancelled: %v", err)
			return
		}
		if out := strings.TrimSpace(output); out != "" {
			logger.Info("Hook output: %s", out)
		}
		if r.OnOutput != nil {
			r.OnOutput(vars, output)
		}
	})
}

// Wait blocks until every started hook has finished.
func (r *ModeChangeRunner) Wait() {
	r.wg.Wait()
}

// Stop kills running hooks and waits for them to exit. Later
// observations only record modes.
func (r *ModeChangeRunner) Stop() {
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()
	r.cancel()
	r.wg.Wait()
}
