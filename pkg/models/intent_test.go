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

package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntentConstructors(t *testing.T) {
	a := NewPointToPointIntent("app", NewConnectPoint("P1", 1), NewConnectPoint("P2", 2))
	b := NewPointToPointIntent("app", NewConnectPoint("P1", 1), NewConnectPoint("P2", 2))

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, IntentKey(a.ID), a.Key)
	assert.False(t, a.IsOptical())
	require.NoError(t, a.Validate())

	o := NewOpticalConnectivityIntent("app", NewConnectPoint("O1", 1), NewConnectPoint("O3", 2))
	assert.True(t, o.IsOptical())
	require.NoError(t, o.Validate())

	h := NewHostToHostIntent("app", "h1", "h2")
	assert.Equal(t, IntentKindHostToHost, h.Kind)
	require.NoError(t, h.Validate())

	var nilIntent *Intent
	assert.False(t, nilIntent.IsOptical())
}

func TestIntentValidate(t *testing.T) {
	tests := []struct {
		name    string
		intent  Intent
		wantErr error
	}{
		{name: "unknown kind", intent: Intent{Kind: "MULTI_POINT"}, wantErr: ErrUnknownIntentKind},
		{name: "missing host payload", intent: Intent{Kind: IntentKindHostToHost}},
		{name: "missing p2p payload", intent: Intent{Kind: IntentKindPointToPoint}},
		{name: "mismatched payload", intent: Intent{Kind: IntentKindOpticalConnectivity, PointToPoint: &PointToPointSpec{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.intent.Validate()
			require.Error(t, err)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestIntentEventJSON(t *testing.T) {
	raw := `{"type":"FAILED","time":"2025-01-02T03:04:05Z","subject":{"id":"1","key":"k","app_id":"a",` +
		`"kind":"POINT_TO_POINT","point_to_point":{"ingress":{"device_id":"P1","port":1},"egress":{"device_id":"P2","port":2}}}}`

	var event IntentEvent
	require.NoError(t, json.Unmarshal([]byte(raw), &event))

	assert.Equal(t, IntentEventFailed, event.Type)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), event.Time)
	require.NotNil(t, event.Subject)
	require.NoError(t, event.Subject.Validate())
	assert.Equal(t, NewConnectPoint("P2", 2), event.Subject.PointToPoint.Egress)
}

func TestDurationJSON(t *testing.T) {
	var d Duration

	require.NoError(t, json.Unmarshal([]byte(`"1m30s"`), &d))
	assert.Equal(t, Duration(90*time.Second), d)

	require.NoError(t, json.Unmarshal([]byte(`1000000000`), &d))
	assert.Equal(t, Duration(time.Second), d)

	require.ErrorIs(t, json.Unmarshal([]byte(`"soon"`), &d), ErrInvalidDuration)
	require.ErrorIs(t, json.Unmarshal([]byte(`true`), &d), ErrInvalidDuration)

	out, err := json.Marshal(Duration(5 * time.Second))
	require.NoError(t, err)
	assert.JSONEq(t, `"5s"`, string(out))
}
