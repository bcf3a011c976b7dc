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

package topology

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/lightpath/pkg/models"
)

func loadMultiLayer(t *testing.T) *Store {
	t.Helper()

	s := NewStore(nil)
	require.NoError(t, s.LoadFile(filepath.Join("testdata", "multilayer.yaml")))

	return s
}

func TestLoadFile(t *testing.T) {
	s := loadMultiLayer(t)
	ctx := context.Background()

	assert.Equal(t, []models.DeviceID{"O1", "O2", "O3", "P1", "P2"}, s.Devices())

	device, err := s.GetDevice(ctx, "O2")
	require.NoError(t, err)
	assert.Equal(t, models.DeviceTypeROADM, device.Type)

	port, err := s.GetPort(ctx, "O1", 10)
	require.NoError(t, err)
	assert.Equal(t, models.PortKindOCh, port.Kind)

	host, err := s.GetHost(ctx, "h2")
	require.NoError(t, err)
	assert.Equal(t, models.NewConnectPoint("P2", 2), host.Location)
}

func TestLoadFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topology.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"devices": [{"id": "A", "type": "OTN"}, {"id": "B", "type": "OTN"}],
		"links": [{"src": {"device_id": "A", "port": 1}, "dst": {"device_id": "B", "port": 1}, "type": "DIRECT"}]
	}`), 0o600))

	s := NewStore(nil)
	require.NoError(t, s.LoadFile(path))

	device, err := s.GetDevice(context.Background(), "B")
	require.NoError(t, err)
	assert.Equal(t, models.DeviceTypeOTN, device.Type)
}

func TestLookupMisses(t *testing.T) {
	s := loadMultiLayer(t)
	ctx := context.Background()

	_, err := s.GetDevice(ctx, "X")
	require.ErrorIs(t, err, models.ErrDeviceNotFound)

	_, err = s.GetPort(ctx, "X", 1)
	require.ErrorIs(t, err, models.ErrDeviceNotFound)

	_, err = s.GetPort(ctx, "O1", 99)
	require.ErrorIs(t, err, models.ErrPortNotFound)

	_, err = s.GetHost(ctx, "h9")
	require.ErrorIs(t, err, models.ErrHostNotFound)
}

func TestLoadRejectsInconsistentSnapshots(t *testing.T) {
	tests := []struct {
		name     string
		snapshot Snapshot
		wantErr  error
	}{
		{
			name: "duplicate device",
			snapshot: Snapshot{Devices: []DeviceRecord{
				{Device: models.Device{ID: "A"}}, {Device: models.Device{ID: "A"}},
			}},
			wantErr: ErrDuplicateDevice,
		},
		{
			name: "host on unknown device",
			snapshot: Snapshot{
				Devices: []DeviceRecord{{Device: models.Device{ID: "A"}}},
				Hosts:   []models.Host{{ID: "h", Location: models.NewConnectPoint("B", 1)}},
			},
			wantErr: ErrUnknownDevice,
		},
		{
			name: "link to unknown device",
			snapshot: Snapshot{
				Devices: []DeviceRecord{{Device: models.Device{ID: "A"}}},
				Links:   []models.Link{{Src: models.NewConnectPoint("A", 1), Dst: models.NewConnectPoint("B", 1)}},
			},
			wantErr: ErrUnknownDevice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := loadMultiLayer(t)

			require.ErrorIs(t, s.Load(&tt.snapshot), tt.wantErr)

			// a rejected snapshot leaves the previous one in place
			_, err := s.GetDevice(context.Background(), "O1")
			require.NoError(t, err)
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	s := NewStore(nil)

	require.Error(t, s.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("devices: [unterminated"), 0o600))
	require.Error(t, s.LoadFile(path))
}
