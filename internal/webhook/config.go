package webhook

import (
	"fmt"
	"log/slog"

	"github.com/hubgate/hubgate/internal/config"
	"github.com/hubgate/hubgate/internal/hub"
	"github.com/hubgate/hubgate/internal/secrets"
)

// FromGlobalConfig converts config.WebhooksConfig into a server Config plus
// constructed receivers, one per configured endpoint.
func FromGlobalConfig(wc *config.WebhooksConfig, dispatcher hub.Dispatcher, logger *slog.Logger) (Config, map[string]*hub.Receiver, error) {
	if wc == nil {
		return Config{}, nil, fmt.Errorf("webhooks config is nil")
	}

	tables := make(map[string]secrets.Table, len(wc.Receivers))
	for _, rc := range wc.Receivers {
		tables[rc.Name] = secrets.Table{
			Default: rc.Secrets.Default,
			ByID:    rc.Secrets.ByID,
		}
	}
	store := secrets.NewStore(tables)

	cfg := Config{
		Listen:    wc.Listen,
		Endpoints: make([]EndpointConfig, len(wc.Receivers)),
	}
	receivers := make(map[string]*hub.Receiver, len(wc.Receivers))

	for i, rc := range wc.Receivers {
		maxBodySize := int64(DefaultMaxBodySize)
		if rc.MaxBodySize != "" {
			parsed, err := config.ParseMaxBodySize(rc.MaxBodySize)
			if err != nil {
				return Config{}, nil, fmt.Errorf("receiver %q: invalid max_body_size %q: %w", rc.Name, rc.MaxBodySize, err)
			}
			maxBodySize = parsed
		}

		receiver, err := hub.New(rc.Name, store, dispatcher, logger, rc.Hints)
		if err != nil {
			return Config{}, nil, fmt.Errorf("receiver %q: %w", rc.Name, err)
		}
		receivers[rc.Name] = receiver

		cfg.Endpoints[i] = EndpointConfig{
			Path:        rc.Path,
			Receiver:    rc.Name,
			MaxBodySize: maxBodySize,
		}
	}

	return cfg, receivers, nil
}
