package playwright

import (
	"context"
	"fmt"
	"sync"
	"time"

	pw "github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/TerminAI/bridge/internal/domain/browser"
)

// Dialer connects to Chromium instances over CDP.
type Dialer struct {
	// InstallDriver downloads the playwright driver (never browsers) before
	// the first dial.
	InstallDriver bool
	// ConnectTimeout bounds ConnectOverCDP when ctx carries no deadline.
	ConnectTimeout time.Duration
	// NavigationTimeout bounds every Goto. Zero keeps the playwright default.
	NavigationTimeout time.Duration
	Logger            *zap.Logger

	installOnce sync.Once
	installErr  error
}

// NewDialer returns a dialer with the given timeouts.
func NewDialer(connectTimeout, navigationTimeout time.Duration, logger *zap.Logger) *Dialer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dialer{
		InstallDriver:     true,
		ConnectTimeout:    connectTimeout,
		NavigationTimeout: navigationTimeout,
		Logger:            logger,
	}
}

func runOptions() *pw.RunOptions {
	return &pw.RunOptions{SkipInstallBrowsers: true}
}

func (d *Dialer) install() error {
	d.installOnce.Do(func() {
		if !d.InstallDriver {
			return
		}
		d.logger().Info("Installing playwright driver")
		if err := pw.Install(runOptions()); err != nil {
			d.installErr = fmt.Errorf("install playwright driver: %w", err)
		}
	})
	return d.installErr
}

// Dial starts a playwright driver and attaches to the browser at endpoint.
func (d *Dialer) Dial(ctx context.Context, endpoint string) (browser.Browser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := d.install(); err != nil {
		return nil, err
	}

	runtime, err := pw.Run(runOptions())
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	opts := pw.BrowserTypeConnectOverCDPOptions{}
	if timeout := d.connectTimeout(ctx); timeout > 0 {
		opts.Timeout = pw.Float(float64(timeout.Milliseconds()))
	}

	remote, err := runtime.Chromium.ConnectOverCDP(endpoint, opts)
	if err != nil {
		if stopErr := runtime.Stop(); stopErr != nil {
			d.logger().Warn("Failed to stop playwright", zap.Error(stopErr))
		}
		return nil, fmt.Errorf("connect over CDP %s: %w", endpoint, err)
	}

	return &remoteBrowser{
		runtime:    runtime,
		browser:    remote,
		navTimeout: d.NavigationTimeout,
		logger:     d.logger(),
	}, nil
}

// connectTimeout prefers the time left on ctx over the configured timeout.
func (d *Dialer) connectTimeout(ctx context.Context) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left > 0 && (d.ConnectTimeout <= 0 || left < d.ConnectTimeout) {
			return left
		}
	}
	return d.ConnectTimeout
}

func (d *Dialer) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
