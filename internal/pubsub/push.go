package pubsub

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrEmptyMessage is returned for a push envelope without data.
var ErrEmptyMessage = errors.New("empty pubsub message")

// PushEnvelope is the JSON body Pub/Sub POSTs to push subscriptions.
type PushEnvelope struct {
	Subscription string `json:"subscription"`
	Message      struct {
		ID         string            `json:"messageId"`
		Data       string            `json:"data"`
		Attributes map[string]string `json:"attributes,omitempty"`
	} `json:"message"`
}

// DecodePush unwraps a push request body and returns the raw message data.
func DecodePush(body []byte) ([]byte, error) {
	var env PushEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("invalid push envelope: %w", err)
	}
	if env.Message.Data == "" {
		return nil, ErrEmptyMessage
	}
	raw, err := base64.StdEncoding.DecodeString(env.Message.Data)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 data: %w", err)
	}
	return raw, nil
}

// EncodePush builds a push envelope around data. It is what Pub/Sub would
// deliver and is used by the CLI and tests to exercise push endpoints.
func EncodePush(subscription string, data []byte) ([]byte, error) {
	var env PushEnvelope
	env.Subscription = subscription
	env.Message.Data = base64.StdEncoding.EncodeToString(data)
	return json.Marshal(env)
}
