package delivery

import (
	"encoding/json"
	"errors"
	"time"
)

// Request carries an authenticated webhook payload into the store.
type Request struct {
	Receiver       string
	SubscriptionID string
	Hints          []string
	Payload        json.RawMessage
}

// Delivery is a stored, accepted notification.
type Delivery struct {
	ID             string
	Receiver       string
	SubscriptionID string
	Hints          []string
	Payload        json.RawMessage
	ReceivedAt     time.Time
}

var ErrDeliveryNotFound = errors.New("delivery not found")
