// Package cli implements the console's flag-driven subcommands.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/compass-console/compass-console/internal/session"
	"github.com/compass-console/compass-console/internal/shared"
	"github.com/compass-console/compass-console/internal/users"
)

// Options carries the dependencies for the CLI.
type Options struct {
	Auth    *session.Service
	Session *session.Store
	Users   *users.Service
	Logger  *slog.Logger
	Stdout  io.Writer
	Stderr  io.Writer
}

// App dispatches subcommands.
type App struct {
	auth    *session.Service
	session *session.Store
	users   *users.Service
	logger  *slog.Logger
	stdout  io.Writer
	stderr  io.Writer
}

// New constructs the App.
func New(opts Options) *App {
	return &App{
		auth:    opts.Auth,
		session: opts.Session,
		users:   opts.Users,
		logger:  opts.Logger,
		stdout:  opts.Stdout,
		stderr:  opts.Stderr,
	}
}

const usage = `compass console

Usage:
  console login    [--email ...] [--password ...]
  console logout
  console whoami   [--json]
  console users    list|get|create|update|delete [flags]

Environment:
  CONSOLE_API_URL, CONSOLE_TIMEOUT, CONSOLE_TOKEN_PATH,
  CONSOLE_REDIS_ADDR, CONSOLE_CACHE_TTL, LOG_FORMAT
`

// Run executes one subcommand and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(a.stderr, usage)
		return 2
	}
	switch args[0] {
	case "login":
		return a.loginCommand(ctx, args[1:])
	case "logout":
		return a.logoutCommand(args[1:])
	case "whoami":
		return a.whoamiCommand(ctx, args[1:])
	case "users":
		return a.usersCommand(ctx, args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(a.stdout, usage)
		return 0
	default:
		fmt.Fprintf(a.stderr, "unknown command %q\n\n", args[0])
		fmt.Fprint(a.stderr, usage)
		return 2
	}
}

// hydrate resolves the persisted token before a command that needs the
// principal. Failure is reported but not fatal; the permission gate will
// deny anonymous callers with a precise message.
func (a *App) hydrate(ctx context.Context) {
	if err := a.auth.Hydrate(ctx); err != nil {
		a.logger.Warn("session hydration", slog.Any("error", err))
	}
}

// fail reports a command failure on stderr and returns the exit code.
func (a *App) fail(err error) int {
	fmt.Fprintln(a.stderr, shared.Resolve(err).Message)
	return 1
}
