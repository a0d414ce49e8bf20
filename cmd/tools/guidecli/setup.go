package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/citizenconnect/gujarat-guide/backend/internal/config"
	"github.com/citizenconnect/gujarat-guide/backend/internal/logging"
	"github.com/citizenconnect/gujarat-guide/backend/internal/model/guide"
	"github.com/citizenconnect/gujarat-guide/backend/internal/service/ai"
	"github.com/citizenconnect/gujarat-guide/backend/internal/service/chat"
)

type setupOpts struct {
	Verbose bool
	Offline bool
}

// newWorkspace builds the same services as the API server, in process.
func newWorkspace(ctx context.Context, opts *setupOpts) (*chat.Workspace, guide.Catalog, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := zap.NewNop()
	if opts.Verbose {
		logger, err = logging.New(cfg.Log)
		if err != nil {
			return nil, nil, err
		}
	}

	var client ai.ModelClient = ai.OfflineClient()
	provider := "offline"
	if !opts.Offline && cfg.AI.Enabled() {
		client, err = ai.NewModelClient(ctx, cfg.AI)
		if err != nil {
			return nil, nil, err
		}
		provider = cfg.AI.Provider
	}

	responder, err := ai.NewService(client, provider, logger)
	if err != nil {
		return nil, nil, err
	}

	catalog := guide.Seed()
	svc := chat.NewService(responder, catalog,
		chat.WithResponseDelay(cfg.Chat.ResponseDelay),
		chat.WithLogger(logger),
	)
	return svc.Workspace(""), catalog, nil
}
