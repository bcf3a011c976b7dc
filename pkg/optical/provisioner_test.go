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
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/lightpath/pkg/logger"
	"github.com/carverauto/lightpath/pkg/models"
)

var errTestFixture = errors.New("fixture error")

const (
	localNode  models.NodeID = "node-1"
	remoteNode models.NodeID = "node-2"
)

// levelCounter counts log events per level.
type levelCounter struct {
	mu     sync.Mutex
	counts map[zerolog.Level]int
}

func (c *levelCounter) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.counts == nil {
		c.counts = make(map[zerolog.Level]int)
	}

	c.counts[level]++
}

func (c *levelCounter) count(level zerolog.Level) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.counts[level]
}

type fixture struct {
	intents         *MockIntentService
	paths           *MockPathService
	hosts           *MockHostService
	devices         *MockDeviceService
	mastership      *MockMastershipService
	cluster         *MockClusterService
	deviceResources *MockDeviceResourceService
	linkResources   *MockLinkResourceService
	registry        *MemoryRegistry
	logs            *levelCounter
	provisioner     *Provisioner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		intents:         NewMockIntentService(ctrl),
		paths:           NewMockPathService(ctrl),
		hosts:           NewMockHostService(ctrl),
		devices:         NewMockDeviceService(ctrl),
		mastership:      NewMockMastershipService(ctrl),
		cluster:         NewMockClusterService(ctrl),
		deviceResources: NewMockDeviceResourceService(ctrl),
		linkResources:   NewMockLinkResourceService(ctrl),
		registry:        NewMemoryRegistry(),
		logs:            &levelCounter{},
	}

	f.cluster.EXPECT().LocalNode().Return(localNode).AnyTimes()

	log := logger.FromZerolog(zerolog.New(io.Discard).Hook(f.logs))

	p, err := NewProvisioner(DefaultConfig(), Dependencies{
		Intents:         f.intents,
		Paths:           f.paths,
		Hosts:           f.hosts,
		Devices:         f.devices,
		Mastership:      f.mastership,
		Cluster:         f.cluster,
		DeviceResources: f.deviceResources,
		LinkResources:   f.linkResources,
		Registry:        f.registry,
	}, log)
	require.NoError(t, err)

	f.provisioner = p

	return f
}

func (f *fixture) expectDevices(types map[string]models.DeviceType) {
	f.devices.EXPECT().GetDevice(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id models.DeviceID) (*models.Device, error) {
			t, ok := types[string(id)]
			if !ok {
				return nil, models.ErrDeviceNotFound
			}

			return &models.Device{ID: id, Type: t}, nil
		}).AnyTimes()
	f.devices.EXPECT().GetPort(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.DeviceID, port models.PortNumber) (*models.Port, error) {
			return &models.Port{Number: port, Kind: models.PortKindOCh, Enabled: true}, nil
		}).AnyTimes()
}

func failedEvent(intent *models.Intent) models.IntentEvent {
	return models.IntentEvent{Type: models.IntentEventFailed, Subject: intent, Time: time.Now()}
}

func TestNewProvisionerValidation(t *testing.T) {
	_, err := NewProvisioner(nil, Dependencies{}, nil)
	require.ErrorIs(t, err, ErrConfigNil)

	_, err = NewProvisioner(&Config{MaxConcurrentEvents: -1}, Dependencies{}, nil)
	require.ErrorIs(t, err, ErrMissingAppID)
	require.ErrorIs(t, err, ErrInvalidConcurrency)

	_, err = NewProvisioner(DefaultConfig(), Dependencies{}, nil)
	require.ErrorIs(t, err, ErrMissingDependency)
}

func TestSetupLightpathEndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ingress, egress := cp("P1", 1), cp("P2", 2)
	intent := models.NewPointToPointIntent("test", ingress, egress)

	f.intents.EXPECT().GetIntentState(gomock.Any(), intent.Key).Return(models.IntentStateFailed, nil)
	f.mastership.EXPECT().GetMasterFor(gomock.Any(), models.DeviceID("P1")).Return(localNode, nil)
	f.paths.EXPECT().GetPaths(gomock.Any(), models.DeviceID("P1"), models.DeviceID("P2"), gomock.Any()).
		Return([]models.Path{multiLayerPath()}, nil)
	f.expectDevices(map[string]models.DeviceType{
		"O1": models.DeviceTypeROADM,
		"O3": models.DeviceTypeROADM,
	})

	var submitted []*models.Intent

	f.intents.EXPECT().Submit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, i *models.Intent) error {
			submitted = append(submitted, i)
			return nil
		}).Times(1)

	f.provisioner.HandleEvent(ctx, failedEvent(intent))

	require.Len(t, submitted, 1)
	got := submitted[0]
	assert.Equal(t, models.IntentKindOpticalConnectivity, got.Kind)
	assert.Equal(t, DefaultAppID, got.AppID)
	assert.Equal(t, cp("O1", 10), got.Optical.Src)
	assert.Equal(t, cp("O3", 31), got.Optical.Dst)
	assert.NotEmpty(t, got.Key)

	owner, found, err := f.registry.Owner(ctx, ingress, egress)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, intent.Key, owner)
	assert.Zero(t, f.logs.count(zerolog.WarnLevel))
}

func TestSetupLightpathMismatchedDeviceTypes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ingress, egress := cp("P1", 1), cp("P2", 2)
	intent := models.NewPointToPointIntent("test", ingress, egress)

	f.intents.EXPECT().GetIntentState(gomock.Any(), intent.Key).Return(models.IntentStateFailed, nil)
	f.mastership.EXPECT().GetMasterFor(gomock.Any(), models.DeviceID("P1")).Return(localNode, nil)
	f.paths.EXPECT().GetPaths(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]models.Path{multiLayerPath()}, nil)
	f.expectDevices(map[string]models.DeviceType{
		"O1": models.DeviceTypeROADM,
		"O3": models.DeviceTypeOTN,
	})
	f.intents.EXPECT().Submit(gomock.Any(), gomock.Any()).Times(0)

	f.provisioner.HandleEvent(ctx, failedEvent(intent))

	assert.Equal(t, 1, f.logs.count(zerolog.WarnLevel))

	_, found, err := f.registry.Owner(ctx, ingress, egress)
	require.NoError(t, err)
	assert.False(t, found, "claim must be released when nothing was provisioned")
}

func TestSetupLightpathTriesNextCandidate(t *testing.T) {
	f := newFixture(t)

	intent := models.NewPointToPointIntent("test", cp("P1", 1), cp("P2", 2))

	mismatched := models.NewPath([]models.Link{
		crossConnectLink(cp("P1", 9), cp("X1", 1)),
		crossConnectLink(cp("X2", 1), cp("P2", 9)),
	}, 2000)
	later := models.NewPath([]models.Link{
		crossConnectLink(cp("P1", 8), cp("Z1", 1)),
		crossConnectLink(cp("Z2", 1), cp("P2", 8)),
	}, 2000)

	f.intents.EXPECT().GetIntentState(gomock.Any(), gomock.Any()).Return(models.IntentStateFailed, nil)
	f.mastership.EXPECT().GetMasterFor(gomock.Any(), gomock.Any()).Return(localNode, nil)
	f.paths.EXPECT().GetPaths(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]models.Path{mismatched, multiLayerPath(), later}, nil)
	f.expectDevices(map[string]models.DeviceType{
		"X1": models.DeviceTypeROADM,
		"X2": models.DeviceTypeOTN,
		"O1": models.DeviceTypeROADM,
		"O3": models.DeviceTypeROADM,
		"Z1": models.DeviceTypeROADM,
		"Z2": models.DeviceTypeROADM,
	})

	var dst models.ConnectPoint

	f.intents.EXPECT().Submit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, i *models.Intent) error {
			dst = i.Optical.Dst
			return nil
		}).Times(1)

	f.provisioner.HandleEvent(context.Background(), failedEvent(intent))

	assert.Equal(t, cp("O3", 31), dst, "first validating candidate wins")
}

func TestSetupLightpathHostToHost(t *testing.T) {
	f := newFixture(t)

	intent := models.NewHostToHostIntent("test", "h1", "h2")

	f.intents.EXPECT().GetIntentState(gomock.Any(), intent.Key).Return(models.IntentStateFailed, nil)
	f.hosts.EXPECT().GetHost(gomock.Any(), models.HostID("h1")).
		Return(&models.Host{ID: "h1", Location: cp("P1", 1)}, nil)
	f.hosts.EXPECT().GetHost(gomock.Any(), models.HostID("h2")).
		Return(&models.Host{ID: "h2", Location: cp("P2", 2)}, nil)
	f.mastership.EXPECT().GetMasterFor(gomock.Any(), models.DeviceID("P1")).Return(localNode, nil)
	f.paths.EXPECT().GetPaths(gomock.Any(), models.DeviceID("P1"), models.DeviceID("P2"), gomock.Any()).
		Return([]models.Path{multiLayerPath()}, nil)
	f.expectDevices(map[string]models.DeviceType{
		"O1": models.DeviceTypeROADM,
		"O3": models.DeviceTypeROADM,
	})
	f.intents.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	f.provisioner.HandleEvent(context.Background(), failedEvent(intent))
}

func TestSetupLightpathAborts(t *testing.T) {
	tests := []struct {
		name   string
		intent func() *models.Intent
		setup  func(f *fixture, intent *models.Intent)
		errors int
	}{
		{
			name:   "intent no longer failed",
			intent: func() *models.Intent { return models.NewPointToPointIntent("test", cp("P1", 1), cp("P2", 2)) },
			setup: func(f *fixture, intent *models.Intent) {
				f.intents.EXPECT().GetIntentState(gomock.Any(), intent.Key).Return(models.IntentStateInstalled, nil)
			},
		},
		{
			name:   "intent state unknown",
			intent: func() *models.Intent { return models.NewPointToPointIntent("test", cp("P1", 1), cp("P2", 2)) },
			setup: func(f *fixture, intent *models.Intent) {
				f.intents.EXPECT().GetIntentState(gomock.Any(), intent.Key).Return(models.IntentState(""), models.ErrIntentNotFound)
			},
		},
		{
			name:   "not master for source device",
			intent: func() *models.Intent { return models.NewPointToPointIntent("test", cp("P1", 1), cp("P2", 2)) },
			setup: func(f *fixture, intent *models.Intent) {
				f.intents.EXPECT().GetIntentState(gomock.Any(), intent.Key).Return(models.IntentStateFailed, nil)
				f.mastership.EXPECT().GetMasterFor(gomock.Any(), models.DeviceID("P1")).Return(remoteNode, nil)
			},
		},
		{
			name:   "mastership lookup fails",
			intent: func() *models.Intent { return models.NewPointToPointIntent("test", cp("P1", 1), cp("P2", 2)) },
			setup: func(f *fixture, intent *models.Intent) {
				f.intents.EXPECT().GetIntentState(gomock.Any(), intent.Key).Return(models.IntentStateFailed, nil)
				f.mastership.EXPECT().GetMasterFor(gomock.Any(), gomock.Any()).Return(models.NodeID(""), errTestFixture)
			},
		},
		{
			name:   "unknown host",
			intent: func() *models.Intent { return models.NewHostToHostIntent("test", "h1", "h2") },
			setup: func(f *fixture, intent *models.Intent) {
				f.intents.EXPECT().GetIntentState(gomock.Any(), intent.Key).Return(models.IntentStateFailed, nil)
				f.hosts.EXPECT().GetHost(gomock.Any(), models.HostID("h1")).Return(nil, models.ErrHostNotFound)
			},
		},
		{
			name: "empty ingress",
			intent: func() *models.Intent {
				return models.NewPointToPointIntent("test", models.ConnectPoint{}, cp("P2", 2))
			},
			setup: func(f *fixture, intent *models.Intent) {
				f.intents.EXPECT().GetIntentState(gomock.Any(), intent.Key).Return(models.IntentStateFailed, nil)
			},
		},
		{
			name: "unsupported intent kind",
			intent: func() *models.Intent {
				return models.NewOpticalConnectivityIntent("test", cp("O1", 1), cp("O3", 1))
			},
			setup: func(f *fixture, intent *models.Intent) {
				f.intents.EXPECT().GetIntentState(gomock.Any(), intent.Key).Return(models.IntentStateFailed, nil)
			},
			errors: 1,
		},
		{
			name:   "no candidate paths",
			intent: func() *models.Intent { return models.NewPointToPointIntent("test", cp("P1", 1), cp("P2", 2)) },
			setup: func(f *fixture, intent *models.Intent) {
				f.intents.EXPECT().GetIntentState(gomock.Any(), intent.Key).Return(models.IntentStateFailed, nil)
				f.mastership.EXPECT().GetMasterFor(gomock.Any(), gomock.Any()).Return(localNode, nil)
				f.paths.EXPECT().GetPaths(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
			},
		},
		{
			name:   "path search error",
			intent: func() *models.Intent { return models.NewPointToPointIntent("test", cp("P1", 1), cp("P2", 2)) },
			setup: func(f *fixture, intent *models.Intent) {
				f.intents.EXPECT().GetIntentState(gomock.Any(), intent.Key).Return(models.IntentStateFailed, nil)
				f.mastership.EXPECT().GetMasterFor(gomock.Any(), gomock.Any()).Return(localNode, nil)
				f.paths.EXPECT().GetPaths(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errTestFixture)
			},
			errors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			intent := tt.intent()
			tt.setup(f, intent)

			// Unexpected calls on any mock fail the test, so every collaborator
			// beyond the ones set up above must stay untouched.
			f.intents.EXPECT().Submit(gomock.Any(), gomock.Any()).Times(0)

			f.provisioner.HandleEvent(context.Background(), failedEvent(intent))

			assert.Equal(t, tt.errors, f.logs.count(zerolog.ErrorLevel))
		})
	}
}

func TestSetupLightpathSkipsClaimedPair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ingress, egress := cp("P1", 1), cp("P2", 2)
	intent := models.NewPointToPointIntent("test", ingress, egress)

	claimed, err := f.registry.Claim(ctx, ingress, egress, "other")
	require.NoError(t, err)
	require.True(t, claimed)

	f.intents.EXPECT().GetIntentState(gomock.Any(), intent.Key).Return(models.IntentStateFailed, nil)
	f.mastership.EXPECT().GetMasterFor(gomock.Any(), gomock.Any()).Return(localNode, nil)

	f.provisioner.HandleEvent(ctx, failedEvent(intent))

	owner, _, err := f.registry.Owner(ctx, ingress, egress)
	require.NoError(t, err)
	assert.Equal(t, models.IntentKey("other"), owner)
}

func TestSetupLightpathRepeatedFailureSubmitsOnce(t *testing.T) {
	f := newFixture(t)

	intent := models.NewPointToPointIntent("test", cp("P1", 1), cp("P2", 2))

	f.intents.EXPECT().GetIntentState(gomock.Any(), intent.Key).Return(models.IntentStateFailed, nil).Times(2)
	f.mastership.EXPECT().GetMasterFor(gomock.Any(), gomock.Any()).Return(localNode, nil).Times(2)
	f.paths.EXPECT().GetPaths(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]models.Path{multiLayerPath()}, nil).Times(1)
	f.expectDevices(map[string]models.DeviceType{"O1": models.DeviceTypeROADM, "O3": models.DeviceTypeROADM})
	f.intents.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	f.provisioner.HandleEvent(context.Background(), failedEvent(intent))
	f.provisioner.HandleEvent(context.Background(), failedEvent(intent))
}

func TestSetupLightpathSubmitFailureReleasesClaim(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ingress, egress := cp("P1", 1), cp("P2", 2)
	intent := models.NewPointToPointIntent("test", ingress, egress)

	f.intents.EXPECT().GetIntentState(gomock.Any(), intent.Key).Return(models.IntentStateFailed, nil)
	f.mastership.EXPECT().GetMasterFor(gomock.Any(), gomock.Any()).Return(localNode, nil)
	f.paths.EXPECT().GetPaths(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]models.Path{multiLayerPath()}, nil)
	f.expectDevices(map[string]models.DeviceType{"O1": models.DeviceTypeROADM, "O3": models.DeviceTypeROADM})
	f.intents.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(errTestFixture)

	f.provisioner.HandleEvent(ctx, failedEvent(intent))

	_, found, err := f.registry.Owner(ctx, ingress, egress)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestHandleEventRecoversFromMalformedPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ingress, egress := cp("P1", 1), cp("P2", 2)
	intent := models.NewPointToPointIntent("test", ingress, egress)

	malformed := models.NewPath([]models.Link{
		{Src: cp("P1", 1), Dst: cp("O1", 1), Type: models.LinkTypeOptical, State: models.LinkStateActive},
	}, 1000)

	f.intents.EXPECT().GetIntentState(gomock.Any(), intent.Key).Return(models.IntentStateFailed, nil)
	f.mastership.EXPECT().GetMasterFor(gomock.Any(), gomock.Any()).Return(localNode, nil)
	f.paths.EXPECT().GetPaths(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]models.Path{malformed}, nil)

	assert.NotPanics(t, func() { f.provisioner.HandleEvent(ctx, failedEvent(intent)) })
	assert.Equal(t, 1, f.logs.count(zerolog.ErrorLevel))

	_, found, err := f.registry.Owner(ctx, ingress, egress)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestHandleEventIgnoresOtherEventTypes(t *testing.T) {
	f := newFixture(t)
	intent := models.NewPointToPointIntent("test", cp("P1", 1), cp("P2", 2))

	for _, eventType := range []models.IntentEventType{
		models.IntentEventInstallReq,
		models.IntentEventInstalled,
		"PURGED",
	} {
		f.provisioner.HandleEvent(context.Background(), models.IntentEvent{Type: eventType, Subject: intent})
	}

	f.provisioner.HandleEvent(context.Background(), models.IntentEvent{Type: models.IntentEventFailed})
	assert.Equal(t, 1, f.logs.count(zerolog.WarnLevel))
}

func TestWithdrawOpticalIntentReleasesResources(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ingress, egress := cp("P1", 1), cp("P2", 2)
	optical := models.NewOpticalConnectivityIntent(DefaultAppID, cp("O1", 10), cp("O3", 31))

	claimed, err := f.registry.Claim(ctx, ingress, egress, "packet")
	require.NoError(t, err)
	require.True(t, claimed)
	require.NoError(t, f.registry.Bind(ctx, ingress, egress, []models.IntentKey{optical.Key}))

	allocations := []models.LinkAllocation{{IntentID: optical.ID, Bandwidth: 10}}

	gomock.InOrder(
		f.deviceResources.EXPECT().ReleasePorts(gomock.Any(), optical.ID).Return(nil),
		f.linkResources.EXPECT().GetAllocations(gomock.Any(), optical.ID).Return(allocations, nil),
		f.linkResources.EXPECT().ReleaseResources(gomock.Any(), allocations).Return(nil),
	)

	f.provisioner.HandleEvent(ctx, models.IntentEvent{Type: models.IntentEventWithdrawn, Subject: optical})

	_, found, err := f.registry.Owner(ctx, ingress, egress)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestWithdrawOpticalIntentContinuesAfterErrors(t *testing.T) {
	f := newFixture(t)
	optical := models.NewOpticalConnectivityIntent(DefaultAppID, cp("O1", 10), cp("O3", 31))

	f.deviceResources.EXPECT().ReleasePorts(gomock.Any(), optical.ID).Return(errTestFixture)
	f.linkResources.EXPECT().GetAllocations(gomock.Any(), optical.ID).Return(nil, errTestFixture)

	f.provisioner.HandleEvent(context.Background(), models.IntentEvent{Type: models.IntentEventWithdrawn, Subject: optical})

	assert.Equal(t, 2, f.logs.count(zerolog.ErrorLevel))
}

func TestWithdrawPacketIntentReleasesNothing(t *testing.T) {
	f := newFixture(t)

	f.deviceResources.EXPECT().ReleasePorts(gomock.Any(), gomock.Any()).Times(0)
	f.linkResources.EXPECT().GetAllocations(gomock.Any(), gomock.Any()).Times(0)
	f.linkResources.EXPECT().ReleaseResources(gomock.Any(), gomock.Any()).Times(0)

	for _, intent := range []*models.Intent{
		models.NewPointToPointIntent("test", cp("P1", 1), cp("P2", 2)),
		models.NewHostToHostIntent("test", "h1", "h2"),
	} {
		f.provisioner.HandleEvent(context.Background(), models.IntentEvent{Type: models.IntentEventWithdrawn, Subject: intent})
	}
}

func TestRunHandlesEventsConcurrently(t *testing.T) {
	f := newFixture(t)

	const n = 8

	var submits atomic.Int32

	f.intents.EXPECT().GetIntentState(gomock.Any(), gomock.Any()).Return(models.IntentStateFailed, nil).Times(n)
	f.mastership.EXPECT().GetMasterFor(gomock.Any(), gomock.Any()).Return(localNode, nil).Times(n)
	f.paths.EXPECT().GetPaths(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]models.Path{multiLayerPath()}, nil).Times(n)
	f.expectDevices(map[string]models.DeviceType{"O1": models.DeviceTypeROADM, "O3": models.DeviceTypeROADM})
	f.intents.EXPECT().Submit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *models.Intent) error {
			submits.Add(1)
			return nil
		}).Times(n)

	events := make(chan models.IntentEvent, n)
	for i := 0; i < n; i++ {
		// distinct ingress ports keep the registry pairs independent
		events <- failedEvent(models.NewPointToPointIntent("test", cp("P1", models.PortNumber(i+1)), cp("P2", 2)))
	}
	close(events)

	require.NoError(t, f.provisioner.Run(context.Background(), events))
	assert.Equal(t, int32(n), submits.Load())
}

func TestStartStop(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	source := NewMockEventSource(ctrl)

	events := make(chan models.IntentEvent)
	source.EXPECT().Subscribe(gomock.Any()).Return((<-chan models.IntentEvent)(events), nil)

	f.provisioner.deps.Events = source

	ctx := context.Background()
	require.NoError(t, f.provisioner.Start(ctx))
	require.ErrorIs(t, f.provisioner.Start(ctx), ErrAlreadyStarted)

	handled := make(chan struct{})

	f.intents.EXPECT().GetIntentState(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, models.IntentKey) (models.IntentState, error) {
			close(handled)
			return models.IntentStateInstalled, nil
		})

	events <- failedEvent(models.NewPointToPointIntent("test", cp("P1", 1), cp("P2", 2)))

	select {
	case <-handled:
	case <-time.After(5 * time.Second):
		t.Fatal("event was not handled")
	}

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	require.NoError(t, f.provisioner.Stop(stopCtx))
	require.NoError(t, f.provisioner.Stop(stopCtx))
}

func TestStartRequiresEventSource(t *testing.T) {
	f := newFixture(t)

	require.ErrorIs(t, f.provisioner.Start(context.Background()), ErrEventSourceRequired)
}

func TestStartSubscribeError(t *testing.T) {
	f := newFixture(t)
	source := NewMockEventSource(gomock.NewController(t))
	source.EXPECT().Subscribe(gomock.Any()).Return(nil, errTestFixture)

	f.provisioner.deps.Events = source

	require.ErrorIs(t, f.provisioner.Start(context.Background()), errTestFixture)
}

func TestCheckCrossConnectPoints(t *testing.T) {
	tests := []struct {
		name     string
		points   []models.ConnectPoint
		want     bool
		warnings int
		errors   int
	}{
		{
			name: "no points",
			want: true,
		},
		{
			name:   "same device types",
			points: []models.ConnectPoint{cp("O1", 10), cp("O3", 31), cp("O4", 1), cp("O5", 2)},
			want:   true,
		},
		{
			name:     "mixed device types",
			points:   []models.ConnectPoint{cp("O1", 10), cp("T1", 1)},
			want:     false,
			warnings: 1,
		},
		{
			name:   "unknown device",
			points: []models.ConnectPoint{cp("O1", 10), cp("X9", 1)},
			want:   false,
			errors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.expectDevices(map[string]models.DeviceType{
				"O1": models.DeviceTypeROADM,
				"O3": models.DeviceTypeROADM,
				"O4": models.DeviceTypeROADM,
				"O5": models.DeviceTypeROADM,
				"T1": models.DeviceTypeOTN,
			})

			assert.Equal(t, tt.want, f.provisioner.checkCrossConnectPoints(context.Background(), tt.points))
			assert.Equal(t, tt.warnings, f.logs.count(zerolog.WarnLevel))
			assert.Equal(t, tt.errors, f.logs.count(zerolog.ErrorLevel))
		})
	}

	t.Run("odd count panics", func(t *testing.T) {
		f := newFixture(t)

		assert.Panics(t, func() {
			f.provisioner.checkCrossConnectPoints(context.Background(), []models.ConnectPoint{cp("O1", 10)})
		})
	})
}

func TestBuildIntents(t *testing.T) {
	f := newFixture(t)
	f.expectDevices(nil)

	points := []models.ConnectPoint{cp("O1", 10), cp("O3", 31), cp("O4", 1), cp("O5", 2)}
	intents := f.provisioner.buildIntents(context.Background(), points)

	require.Len(t, intents, 2)

	keys := map[models.IntentKey]bool{}

	for i, intent := range intents {
		assert.Equal(t, models.IntentKindOpticalConnectivity, intent.Kind)
		assert.Equal(t, DefaultAppID, intent.AppID)
		require.NotNil(t, intent.Optical)
		assert.Equal(t, points[2*i], intent.Optical.Src)
		assert.Equal(t, points[2*i+1], intent.Optical.Dst)
		assert.NotEmpty(t, intent.ID)

		keys[intent.Key] = true
	}

	assert.Len(t, keys, 2, "every intent gets its own key")

	assert.Panics(t, func() {
		f.provisioner.buildIntents(context.Background(), points[:3])
	})
}

func TestBuildIntentsClientPorts(t *testing.T) {
	f := newFixture(t)
	f.devices.EXPECT().GetPort(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.DeviceID, port models.PortNumber) (*models.Port, error) {
			return &models.Port{Number: port, Kind: models.PortKindODUClt, Enabled: true}, nil
		}).Times(2)

	intents := f.provisioner.buildIntents(context.Background(), []models.ConnectPoint{cp("T1", 1), cp("T2", 2)})

	require.Len(t, intents, 1)
	assert.Equal(t, cp("T1", 1), intents[0].Optical.Src)
	assert.Zero(t, f.logs.count(zerolog.WarnLevel))
}

func TestFailedOpticalIntentAllowsReprovisioning(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ingress, egress := cp("P1", 1), cp("P2", 2)
	intent := models.NewPointToPointIntent("test", ingress, egress)

	f.intents.EXPECT().GetIntentState(gomock.Any(), intent.Key).Return(models.IntentStateFailed, nil).Times(2)
	f.mastership.EXPECT().GetMasterFor(gomock.Any(), models.DeviceID("P1")).Return(localNode, nil).Times(2)
	f.paths.EXPECT().GetPaths(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]models.Path{multiLayerPath()}, nil).Times(2)
	f.expectDevices(map[string]models.DeviceType{"O1": models.DeviceTypeROADM, "O3": models.DeviceTypeROADM})

	var submitted []*models.Intent

	f.intents.EXPECT().Submit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, i *models.Intent) error {
			submitted = append(submitted, i)
			return nil
		}).Times(2)

	f.provisioner.HandleEvent(ctx, failedEvent(intent))
	require.Len(t, submitted, 1)

	optical := submitted[0]
	f.intents.EXPECT().GetIntentState(gomock.Any(), optical.Key).Return(models.IntentStateFailed, nil)

	f.provisioner.HandleEvent(ctx, failedEvent(optical))

	_, found, err := f.registry.Owner(ctx, ingress, egress)
	require.NoError(t, err)
	assert.False(t, found, "failed optical intent must free its pair")

	f.provisioner.HandleEvent(ctx, failedEvent(intent))

	require.Len(t, submitted, 2)
	assert.NotEqual(t, optical.Key, submitted[1].Key)

	owner, found, err := f.registry.Owner(ctx, ingress, egress)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, intent.Key, owner)
}

func TestCheckCrossConnectPointsNilDevice(t *testing.T) {
	f := newFixture(t)
	f.devices.EXPECT().GetDevice(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)

	var ok bool

	require.NotPanics(t, func() {
		ok = f.provisioner.checkCrossConnectPoints(context.Background(), []models.ConnectPoint{cp("O1", 10), cp("O3", 31)})
	})
	assert.False(t, ok)
	assert.Equal(t, 1, f.logs.count(zerolog.ErrorLevel))
}
