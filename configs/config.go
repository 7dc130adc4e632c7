package configs

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

type ProposalStateServiceConfig struct {
	App           App
	DB            DB
	Logger        Logger
	Engine        Engine
	Scheduler     Scheduler
	Notifications Notifications
}

func LoadProposalStateServiceConfig() (ProposalStateServiceConfig, error) {
	var config ProposalStateServiceConfig

	if err := env.Parse(&config); err != nil {
		return ProposalStateServiceConfig{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if config.Engine.MaxWriteAttempts < 1 {
		return ProposalStateServiceConfig{}, fmt.Errorf("ENGINE_MAX_WRITE_ATTEMPTS must be at least 1, got %d", config.Engine.MaxWriteAttempts)
	}

	return config, nil
}
