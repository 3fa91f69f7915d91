package pipreqs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"wheelwright/internal/services"
)

// Generator defines the behaviour the manifest step needs from the
// requirements scanner.
type Generator interface {
	Generate(ctx context.Context, root, savePath string, onOutput func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec services.Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithIgnoreDirs sets directories the scanner skips.
func WithIgnoreDirs(dirs []string) Option {
	return func(c *Client) {
		c.ignoreDirs = append([]string(nil), dirs...)
	}
}

// Client wraps pipreqs CLI interactions.
type Client struct {
	binary     string
	timeout    time.Duration
	ignoreDirs []string
	exec       services.Executor
}

// New constructs a pipreqs client.
func New(binary string, timeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("pipreqs binary required")
	}
	client := &Client{
		binary:  binary,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		exec:    services.CommandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Generate runs the scanner against root, force-overwriting the manifest at
// savePath. Tool output lines are forwarded to onOutput when provided.
func (c *Client) Generate(ctx context.Context, root, savePath string, onOutput func(string)) error {
	if strings.TrimSpace(root) == "" {
		return services.Wrap(services.ErrValidation, "manifest", "generate", "project root required", nil)
	}
	if strings.TrimSpace(savePath) == "" {
		return services.Wrap(services.ErrValidation, "manifest", "generate", "manifest save path required", nil)
	}

	genCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := []string{"--force", "--savepath", savePath}
	if len(c.ignoreDirs) > 0 {
		args = append(args, "--ignore", strings.Join(c.ignoreDirs, ","))
	}
	args = append(args, root)

	if err := c.exec.Run(genCtx, root, c.binary, args, onOutput); err != nil {
		if errors.Is(genCtx.Err(), context.DeadlineExceeded) {
			return services.Wrap(services.ErrTimeout, "manifest", "pipreqs", fmt.Sprintf("scan exceeded %s", c.timeout), err)
		}
		return services.Wrap(services.ErrExternalTool, "manifest", "pipreqs", "dependency scan failed", err)
	}

	if _, err := os.Stat(savePath); errors.Is(err, os.ErrNotExist) {
		return services.Wrap(services.ErrExternalTool, "manifest", "pipreqs", "scanner exited cleanly but wrote no manifest", nil)
	}
	return nil
}
