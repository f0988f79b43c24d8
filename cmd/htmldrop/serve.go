package main

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// shutdownTimeout bounds how long serve waits for in-flight work on exit.
const shutdownTimeout = 30 * time.Second

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	if err := deps.Server.Open(c.Listen); err != nil {
		return fmt.Errorf("failed to start read API: %w", err)
	}
	if err := deps.Bot.Open(); err != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Join(err, deps.Server.Close(ctx))
	}
	deps.Logger.Info("serving", "listen", c.Listen, "base_url", deps.BaseURL)

	<-deps.Ctx.Done()
	deps.Logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// The bot goes first so no new submissions arrive while the API drains.
	return errors.Join(deps.Bot.Close(), deps.Server.Close(ctx))
}
