package bootstrap

import (
	"seatgate/internal/config"
	"seatgate/internal/logging"
	"seatgate/internal/ports"
	"seatgate/internal/providers/seatapi"
	"seatgate/internal/usecase"
)

// Services is the assembled runtime graph.
type Services struct {
	Coordinator *usecase.AccessCoordinator
	Config      config.Config
}

// Build wires the session service client and the access coordinator.
func Build(eventSink ports.EventSink) (Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return Services{}, err
	}
	logging.Init(cfg.Log.Level)

	client := seatapi.NewClient(seatapi.Config{
		BaseURL: cfg.Service.BaseURL,
		Timeout: cfg.Service.RequestTimeout,
	})

	coordinator := usecase.NewAccessCoordinator(client, eventSink, usecase.Config{
		SessionTick:         cfg.Access.SessionTick,
		ClaimTick:           cfg.Access.ClaimTick,
		ClaimCeiling:        cfg.Access.ClaimCeiling,
		ClaimWarnAt:         cfg.Access.ClaimWarnAt,
		ClaimCriticalAt:     cfg.Access.ClaimCriticalAt,
		QueuePollInterval:   cfg.Access.QueuePollInterval,
		CleanupPollInterval: cfg.Access.CleanupPollInterval,
		StatusPollInterval:  cfg.Access.StatusPollInterval,
		InteractionQuiet:    cfg.Access.InteractionQuiet,
		RefreshDelay:        cfg.Access.RefreshDelay,
		ResetDelay:          cfg.Access.ResetDelay,
		ForfeitResyncDelay:  cfg.Access.ForfeitResyncDelay,
	})

	return Services{Coordinator: coordinator, Config: cfg}, nil
}
