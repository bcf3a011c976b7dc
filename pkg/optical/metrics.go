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

package optical

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/carverauto/lightpath/pkg/logger"
)

const instrumentationName = "github.com/carverauto/lightpath/pkg/optical"

type provisionerMetrics struct {
	events        metric.Int64Counter
	submitted     metric.Int64Counter
	rejectedPaths metric.Int64Counter
}

// newProvisionerMetrics registers the provisioner's instruments on meter. An
// instrument the meter rejects is logged and replaced by a no-op.
func newProvisionerMetrics(meter metric.Meter, log logger.Logger) *provisionerMetrics {
	counter := func(name, description string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(description))
		if err != nil {
			log.Warn().Err(err).Str("instrument", name).Msg("Failed to create metric instrument")

			c, _ = noop.NewMeterProvider().Meter(instrumentationName).Int64Counter(name)
		}

		return c
	}

	return &provisionerMetrics{
		events: counter("lightpath.intent_events",
			"Intent lifecycle events received, by event type"),
		submitted: counter("lightpath.optical_intents_submitted",
			"Optical connectivity intents submitted"),
		rejectedPaths: counter("lightpath.paths_rejected",
			"Candidate paths rejected for mismatched cross connect points"),
	}
}

func (m *provisionerMetrics) recordEvent(ctx context.Context, eventType string) {
	if m == nil || m.events == nil {
		return
	}

	m.events.Add(ctx, 1, metric.WithAttributes(attribute.String("type", eventType)))
}

func (m *provisionerMetrics) recordSubmitted(ctx context.Context, n int) {
	if m == nil || m.submitted == nil || n == 0 {
		return
	}

	m.submitted.Add(ctx, int64(n))
}

func (m *provisionerMetrics) recordRejectedPath(ctx context.Context) {
	if m == nil || m.rejectedPaths == nil {
		return
	}

	m.rejectedPaths.Add(ctx, 1)
}
