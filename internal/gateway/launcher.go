package gateway

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/apperrors"
)

// Launcher starts the clientportal.gw process and waits for it to become
// reachable. Authentication itself happens in the user's browser; the
// launcher only brings the gateway up and polls its status.
type Launcher struct {
	home   string
	client Client
}

// NewLauncher creates a Launcher for the gateway installed at home.
func NewLauncher(home string, client Client) *Launcher {
	return &Launcher{
		home:   home,
		client: client,
	}
}

// EnsureRunning checks whether the gateway already answers on its API port
// and starts it when it does not. It then polls the auth status with capped
// exponential backoff until the gateway responds or ctx expires.
//
// A gateway that responds but is not yet authenticated is considered
// running: the caller surfaces the login state to the user separately.
func (l *Launcher) EnsureRunning(ctx context.Context) error {
	if _, err := l.client.AuthStatus(ctx); err == nil {
		return nil
	}

	if err := l.start(); err != nil {
		return err
	}

	backoff := 2 * time.Second
	maxBackoff := 30 * time.Second
	maxAttempts := 10

	for attempt := 0; attempt < maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}

		if _, err := l.client.AuthStatus(ctx); err == nil {
			log.Printf("Gateway is up after %d attempt(s)", attempt+1)
			return nil
		}
	}

	return fmt.Errorf("%w: gateway did not come up", apperrors.ErrUpstreamUnavailable)
}

// start launches the gateway run script in the background using the
// gateway's own default configuration file.
func (l *Launcher) start() error {
	if _, err := os.Stat(l.home); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrGatewayNotFound, l.home)
	}

	script := filepath.Join(l.home, "bin", "run.sh")
	confArg := "root/conf.yaml"
	if runtime.GOOS == "windows" {
		script = filepath.Join(l.home, "bin", "run.bat")
		confArg = `root\conf.yaml`
	}

	if _, err := os.Stat(script); err != nil {
		return fmt.Errorf("%w: run script missing at %s", apperrors.ErrGatewayNotFound, script)
	}

	cmd := exec.Command(script, confArg)
	cmd.Dir = l.home
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch gateway: %w", err)
	}

	log.Printf("Gateway launch command sent (pid %d), waiting for initialization", cmd.Process.Pid)

	// The gateway is a long-lived child; reap it in the background so it
	// does not linger as a zombie if it exits.
	go func() {
		_ = cmd.Wait()
	}()

	return nil
}
