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
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/carverauto/lightpath/pkg/logger"
)

type rejectingMeter struct {
	noop.Meter
}

func (rejectingMeter) Int64Counter(string, ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	return nil, errTestFixture
}

func TestProvisionerMetricsFallBackToNoop(t *testing.T) {
	logs := &levelCounter{}
	log := logger.FromZerolog(zerolog.New(io.Discard).Hook(logs))

	m := newProvisionerMetrics(rejectingMeter{}, log)

	assert.Equal(t, 3, logs.count(zerolog.WarnLevel))
	assert.NotNil(t, m.events)
	assert.NotNil(t, m.submitted)
	assert.NotNil(t, m.rejectedPaths)

	assert.NotPanics(t, func() {
		ctx := context.Background()
		m.recordEvent(ctx, "FAILED")
		m.recordSubmitted(ctx, 2)
		m.recordRejectedPath(ctx)
	})
}
