/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package natsutil

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/lightpath/pkg/kv"
	"github.com/carverauto/lightpath/pkg/logger"
	"github.com/carverauto/lightpath/pkg/models"
)

const (
	// IntentEventTypePrefix prefixes the CloudEvent type of lifecycle events,
	// followed by the lower cased event type ("...intent.failed").
	IntentEventTypePrefix = "com.carverauto.lightpath.intent."
	// IntentSubmitEventType is the CloudEvent type of submitted intents.
	IntentSubmitEventType = "com.carverauto.lightpath.intent.submit"

	intentStateKeyPrefix = "state."

	submitInitialBackoff = 100 * time.Millisecond
	submitMaxBackoff     = 2 * time.Second
	submitMaxElapsed     = 15 * time.Second
)

var (
	ErrUnsupportedSpecVersion = errors.New("unsupported CloudEvents spec version")
	ErrUnsupportedContentType = errors.New("unsupported CloudEvents data content type")
	ErrMissingEventSubject    = errors.New("intent event has no subject intent")
	ErrMissingEventType       = errors.New("intent event has no type")
)

// EncodeIntentEvent wraps event in a CloudEvent envelope.
func EncodeIntentEvent(event models.IntentEvent, source string) ([]byte, error) {
	if event.Subject == nil {
		return nil, ErrMissingEventSubject
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal intent event: %w", err)
	}

	ts := event.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	return json.Marshal(models.CloudEvent{
		SpecVersion:     models.CloudEventSpecVersion,
		ID:              uuid.New().String(),
		Source:          source,
		Type:            IntentEventTypePrefix + strings.ToLower(string(event.Type)),
		DataContentType: models.CloudEventContentTypeJSON,
		Subject:         string(event.Subject.Key),
		Time:            &ts,
		Data:            data,
	})
}

// DecodeIntentEvent unwraps a lifecycle event from its CloudEvent envelope.
// The event type and time fall back to the envelope's when the payload omits
// them.
func DecodeIntentEvent(payload []byte) (models.IntentEvent, error) {
	var (
		ce    models.CloudEvent
		event models.IntentEvent
	)

	if err := json.Unmarshal(payload, &ce); err != nil {
		return event, fmt.Errorf("failed to unmarshal CloudEvent: %w", err)
	}

	if ce.SpecVersion != models.CloudEventSpecVersion {
		return event, fmt.Errorf("%w: %q", ErrUnsupportedSpecVersion, ce.SpecVersion)
	}

	if ce.DataContentType != "" && ce.DataContentType != models.CloudEventContentTypeJSON {
		return event, fmt.Errorf("%w: %q", ErrUnsupportedContentType, ce.DataContentType)
	}

	if err := json.Unmarshal(ce.Data, &event); err != nil {
		return event, fmt.Errorf("failed to unmarshal intent event %s: %w", ce.ID, err)
	}

	if event.Type == "" {
		suffix, ok := strings.CutPrefix(ce.Type, IntentEventTypePrefix)
		if !ok || suffix == "" {
			return event, fmt.Errorf("%w: %s", ErrMissingEventType, ce.ID)
		}

		event.Type = models.IntentEventType(strings.ToUpper(suffix))
	}

	if event.Time.IsZero() && ce.Time != nil {
		event.Time = *ce.Time
	}

	if event.Subject == nil {
		return event, fmt.Errorf("%w: %s", ErrMissingEventSubject, ce.ID)
	}

	if err := event.Subject.Validate(); err != nil {
		return event, err
	}

	return event, nil
}

// IntentStateKey is the key an intent's lifecycle state is stored under.
func IntentStateKey(key models.IntentKey) string {
	return intentStateKeyPrefix + base64.RawURLEncoding.EncodeToString([]byte(key))
}

// publisher is the part of jetstream.JetStream used to submit intents.
type publisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// IntentClient submits intents to the intent manager over JetStream and reads
// their lifecycle state from its key/value bucket.
type IntentClient struct {
	js      publisher
	states  kv.KVStore
	subject string
	source  string
	logger  logger.Logger
}

// NewIntentClient returns a client publishing submissions on subject.
func NewIntentClient(js publisher, states kv.KVStore, subject, source string, log logger.Logger) *IntentClient {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &IntentClient{
		js:      js,
		states:  states,
		subject: subject,
		source:  source,
		logger:  log.WithComponent("intent-client"),
	}
}

// Submit publishes intent. Transient publish failures are retried with the
// same message id so the stream drops duplicates.
func (c *IntentClient) Submit(ctx context.Context, intent *models.Intent) error {
	if err := intent.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("failed to marshal intent: %w", err)
	}

	now := time.Now()
	ce := models.CloudEvent{
		SpecVersion:     models.CloudEventSpecVersion,
		ID:              uuid.New().String(),
		Source:          c.source,
		Type:            IntentSubmitEventType,
		DataContentType: models.CloudEventContentTypeJSON,
		Subject:         string(intent.Key),
		Time:            &now,
		Data:            data,
	}

	payload, err := json.Marshal(ce)
	if err != nil {
		return fmt.Errorf("failed to marshal submission: %w", err)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = submitInitialBackoff
	bo.MaxInterval = submitMaxBackoff

	operation := func() (*jetstream.PubAck, error) {
		ack, err := c.js.Publish(ctx, c.subject, payload, jetstream.WithMsgID(ce.ID))
		if err != nil && ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}

		return ack, err
	}

	ack, err := backoff.Retry(ctx, operation, backoff.WithBackOff(bo), backoff.WithMaxElapsedTime(submitMaxElapsed))
	if err != nil {
		return fmt.Errorf("failed to publish intent %s: %w", intent.Key, err)
	}

	c.logger.Debug().Str("intent_key", string(intent.Key)).Str("stream", ack.Stream).
		Uint64("seq", ack.Sequence).Msg("Published intent")

	return nil
}

// GetIntentState returns the last state recorded for key.
func (c *IntentClient) GetIntentState(ctx context.Context, key models.IntentKey) (models.IntentState, error) {
	value, found, err := c.states.Get(ctx, IntentStateKey(key))
	if err != nil {
		return "", err
	}

	if !found {
		return "", fmt.Errorf("%w: %s", models.ErrIntentNotFound, key)
	}

	return models.IntentState(strings.TrimSpace(string(value))), nil
}

// SetIntentState records state for key.
func (c *IntentClient) SetIntentState(ctx context.Context, key models.IntentKey, state models.IntentState) error {
	return c.states.Put(ctx, IntentStateKey(key), []byte(state))
}
