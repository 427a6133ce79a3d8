package webhook

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubgate/hubgate/internal/config"
)

func TestFromGlobalConfig(t *testing.T) {
	wc := &config.WebhooksConfig{
		Listen: "127.0.0.1:9000",
		Receivers: []config.ReceiverConfig{
			{
				Name: "facebook",
				Path: "/hooks/facebook",
				Secrets: config.SecretTableConfig{
					Default: testSecret,
					ByID:    map[string]string{"page-1": "othersecret12345"},
				},
				Hints:       []string{"notify"},
				MaxBodySize: "64KB",
			},
			{
				Name:    "instagram",
				Path:    "/hooks/instagram",
				Secrets: config.SecretTableConfig{Default: testSecret},
			},
		},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	d := &stubDispatcher{}

	cfg, receivers, err := FromGlobalConfig(wc, d, logger)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Listen)
	require.Len(t, cfg.Endpoints, 2)
	assert.Equal(t, int64(64*1024), cfg.Endpoints[0].MaxBodySize)
	assert.Equal(t, int64(DefaultMaxBodySize), cfg.Endpoints[1].MaxBodySize)

	require.Contains(t, receivers, "facebook")
	require.Contains(t, receivers, "instagram")

	// Per-id secrets land in the shared store.
	body := []byte(`{"a":1}`)
	err = receivers["facebook"].VerifySignature("page-1", "sha1=deadbeef", body)
	assert.Error(t, err, "wrong digest must be rejected, not unresolved")
}

func TestFromGlobalConfigNil(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, _, err := FromGlobalConfig(nil, &stubDispatcher{}, logger)
	assert.Error(t, err)
}

func TestFromGlobalConfigBadBodySize(t *testing.T) {
	wc := &config.WebhooksConfig{
		Receivers: []config.ReceiverConfig{
			{
				Name:        "facebook",
				Path:        "/hooks/facebook",
				Secrets:     config.SecretTableConfig{Default: testSecret},
				MaxBodySize: "lots",
			},
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, _, err := FromGlobalConfig(wc, &stubDispatcher{}, logger)
	assert.Error(t, err)
}
