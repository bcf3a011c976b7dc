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
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/lightpath/pkg/logger"
	"github.com/carverauto/lightpath/pkg/models"
)

const (
	defaultFetchBatch   = 10
	defaultFetchMaxWait = 5 * time.Second
	defaultAckWait      = 30 * time.Second
	defaultMaxDeliver   = 3
	fetchMaxBackoff     = 30 * time.Second
)

// EventSourceConfig selects the stream and durable consumer lifecycle events
// are read from.
type EventSourceConfig struct {
	Stream    string          `json:"stream"`
	Consumer  string          `json:"consumer"`
	Subject   string          `json:"subject"`
	BatchSize int             `json:"batch_size,omitempty"`
	MaxWait   models.Duration `json:"max_wait,omitempty"`
}

// IntentEventSource delivers intent lifecycle events from a JetStream pull
// consumer. A message is acknowledged once the event has been handed over;
// messages that cannot be decoded are terminated.
type IntentEventSource struct {
	js     jetstream.JetStream
	config EventSourceConfig
	logger logger.Logger
}

// NewIntentEventSource returns an event source for config.
func NewIntentEventSource(js jetstream.JetStream, config EventSourceConfig, log logger.Logger) *IntentEventSource {
	if config.BatchSize <= 0 {
		config.BatchSize = defaultFetchBatch
	}

	if config.MaxWait <= 0 {
		config.MaxWait = models.Duration(defaultFetchMaxWait)
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	return &IntentEventSource{
		js:     js,
		config: config,
		logger: log.WithComponent("intent-events"),
	}
}

// Subscribe creates or updates the durable consumer and starts delivering
// events. The returned channel is closed after ctx is canceled.
func (s *IntentEventSource) Subscribe(ctx context.Context) (<-chan models.IntentEvent, error) {
	cfg := jetstream.ConsumerConfig{
		Durable:       s.config.Consumer,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       defaultAckWait,
		MaxDeliver:    defaultMaxDeliver,
		FilterSubject: s.config.Subject,
	}

	consumer, err := s.js.CreateOrUpdateConsumer(ctx, s.config.Stream, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer %s on stream %s: %w", s.config.Consumer, s.config.Stream, err)
	}

	s.logger.Info().Str("stream", s.config.Stream).Str("consumer", s.config.Consumer).
		Str("subject", s.config.Subject).Msg("Subscribed to intent events")

	out := make(chan models.IntentEvent)

	go s.pump(ctx, consumer, out)

	return out, nil
}

func (s *IntentEventSource) pump(ctx context.Context, consumer jetstream.Consumer, out chan<- models.IntentEvent) {
	defer close(out)

	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = fetchMaxBackoff

	for ctx.Err() == nil {
		batch, err := consumer.Fetch(s.config.BatchSize, jetstream.FetchMaxWait(time.Duration(s.config.MaxWait)))
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to fetch intent events")

			select {
			case <-ctx.Done():
				return
			case <-time.After(bo.NextBackOff()):
			}

			continue
		}

		bo.Reset()

		for msg := range batch.Messages() {
			s.handleMessage(ctx, msg, out)
		}

		if err := batch.Error(); err != nil {
			s.logger.Debug().Err(err).Msg("Fetch ended with error")
		}
	}
}

func (s *IntentEventSource) handleMessage(ctx context.Context, msg jetstream.Msg, out chan<- models.IntentEvent) {
	event, err := DecodeIntentEvent(msg.Data())
	if err != nil {
		s.logger.Error().Err(err).Str("subject", msg.Subject()).Msg("Dropping undecodable intent event")

		if err := msg.Term(); err != nil {
			s.logger.Debug().Err(err).Msg("Failed to terminate message")
		}

		return
	}

	select {
	case out <- event:
		if err := msg.Ack(); err != nil {
			s.logger.Debug().Err(err).Msg("Failed to ack intent event")
		}
	case <-ctx.Done():
		// redelivered to whichever node picks the consumer up next
		_ = msg.Nak()
	}
}
