package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/hubgate/hubgate/internal/delivery"
	"github.com/hubgate/hubgate/internal/secrets"
)

// Handshake query parameter names, fixed by the callback protocol.
const (
	paramMode        = "hub.mode"
	paramVerifyToken = "hub.verify_token"
	paramChallenge   = "hub.challenge"

	modeSubscribe = "subscribe"
)

// Dispatcher consumes an authenticated payload for downstream processing.
type Dispatcher interface {
	Dispatch(ctx context.Context, req delivery.Request) (string, error)
}

// Receiver answers handshakes and verifies notifications for one
// configured endpoint. It holds no per-request state and is safe for
// concurrent use.
type Receiver struct {
	name       string
	secrets    secrets.Resolver
	dispatcher Dispatcher
	logger     *slog.Logger
	hints      []string
}

// New creates a receiver. The resolver and dispatcher are required.
func New(name string, resolver secrets.Resolver, dispatcher Dispatcher, logger *slog.Logger, hints []string) (*Receiver, error) {
	if name == "" {
		return nil, fmt.Errorf("receiver name is empty: %w", ErrInvalidArgument)
	}
	if resolver == nil {
		return nil, fmt.Errorf("secret resolver is nil: %w", ErrInvalidArgument)
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is nil: %w", ErrInvalidArgument)
	}
	return &Receiver{
		name:       name,
		secrets:    resolver,
		dispatcher: dispatcher,
		logger:     logger,
		hints:      hints,
	}, nil
}

// Name returns the receiver's configured name.
func (rc *Receiver) Name() string {
	return rc.name
}

// HandleChallenge completes the subscription handshake for the given
// subscription id and returns the challenge value to echo.
//
// The secret must resolve before anything else is looked at; a missing or
// out-of-range secret fails the whole request. A non-numeric challenge is
// the caller's error and is propagated, not swallowed.
func (rc *Receiver) HandleChallenge(id string, query url.Values) (int64, error) {
	secret, err := rc.secrets.Resolve(rc.name, id, MinSecretLen, MaxSecretLen)
	if err != nil {
		return 0, authErr(ReasonSecretUnresolved, err)
	}

	mode := query.Get(paramMode)
	token := query.Get(paramVerifyToken)

	if mode != modeSubscribe || token != secret {
		rc.logger.Warn("handshake rejected",
			"receiver", rc.name,
			"subscription_id", id,
			"mode", mode,
		)
		return 0, fmt.Errorf("mode %q or verify token mismatch: %w", mode, ErrBadHandshake)
	}

	challenge, err := strconv.ParseInt(query.Get(paramChallenge), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse challenge: %w", err)
	}

	return challenge, nil
}

// VerifyAndForward authenticates a notification body against its signature
// header, then hands the payload to the dispatcher. On any verification
// failure the dispatcher is never reached.
func (rc *Receiver) VerifyAndForward(ctx context.Context, id, signature string, body []byte) (string, error) {
	if err := rc.VerifySignature(id, signature, body); err != nil {
		rc.logger.Warn("notification rejected",
			"receiver", rc.name,
			"subscription_id", id,
			"error", err,
		)
		return "", err
	}

	// The payload is an arbitrary JSON document; no schema is enforced
	// here, but it must at least parse.
	var payload json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("parse payload: %w", err)
	}

	deliveryID, err := rc.dispatcher.Dispatch(ctx, delivery.Request{
		Receiver:       rc.name,
		SubscriptionID: id,
		Hints:          rc.hints,
		Payload:        payload,
	})
	if err != nil {
		return "", fmt.Errorf("dispatch: %w", err)
	}

	return deliveryID, nil
}
