// Package cli implements the interactive vault REPL.
package cli

import (
	"bufio"
	"context"
	"log/slog"
	"os"

	"passvault/internal/logging"
	"passvault/internal/vault/config"
	"passvault/internal/vault/session"

	_ "modernc.org/sqlite"
)

type App struct {
	config  *config.Config
	session *session.Session
	reader  *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	sess, err := session.Open(ctx, c.DatabasePath, log)
	if err != nil {
		return nil, err
	}

	return &App{config: c, session: sess, reader: bufio.NewReader(os.Stdin)}, nil
}

func (a *App) Run(ctx context.Context) {
	defer func() { _ = a.session.Close() }()

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) status() string {
	return string(a.session.State())
}

func (a *App) isUnlocked() bool {
	return a.session.State() == session.StateUnlocked
}

func (a *App) isInitialized() bool {
	return a.session.State() != session.StateUninitialized
}
