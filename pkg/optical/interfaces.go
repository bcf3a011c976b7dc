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

//go:generate mockgen -destination=mock_interfaces.go -package=optical github.com/carverauto/lightpath/pkg/optical IntentService,PathService,HostService,DeviceService,MastershipService,ClusterService,DeviceResourceService,LinkResourceService,Registry,EventSource

// Package optical provisions optical connectivity for packet intents that
// failed for lack of packet-layer capacity.
package optical

import (
	"context"

	"github.com/carverauto/lightpath/pkg/models"
)

// IntentService is the intent lifecycle manager.
type IntentService interface {
	// Submit hands an intent over for asynchronous installation.
	Submit(ctx context.Context, intent *models.Intent) error

	// GetIntentState returns the current lifecycle state of the intent with the given key.
	GetIntentState(ctx context.Context, key models.IntentKey) (models.IntentState, error)
}

// EventSource delivers intent lifecycle events. The returned channel is
// closed when ctx is canceled or the source shuts down.
type EventSource interface {
	Subscribe(ctx context.Context) (<-chan models.IntentEvent, error)
}

// PathService computes candidate paths between two devices.
type PathService interface {
	GetPaths(ctx context.Context, src, dst models.DeviceID, weight models.LinkWeight) ([]models.Path, error)
}

// HostService resolves hosts to their attachment point.
type HostService interface {
	// GetHost returns models.ErrHostNotFound when the host is unknown.
	GetHost(ctx context.Context, id models.HostID) (*models.Host, error)
}

// DeviceService is the device and port inventory.
type DeviceService interface {
	GetDevice(ctx context.Context, id models.DeviceID) (*models.Device, error)
	GetPort(ctx context.Context, id models.DeviceID, port models.PortNumber) (*models.Port, error)
}

// MastershipService reports which controller node is authoritative for a device.
type MastershipService interface {
	GetMasterFor(ctx context.Context, id models.DeviceID) (models.NodeID, error)
}

// ClusterService identifies the local controller node.
type ClusterService interface {
	LocalNode() models.NodeID
}

// DeviceResourceService tracks port reservations.
type DeviceResourceService interface {
	ReleasePorts(ctx context.Context, id models.IntentID) error
}

// LinkResourceService tracks link bandwidth reservations.
type LinkResourceService interface {
	GetAllocations(ctx context.Context, id models.IntentID) ([]models.LinkAllocation, error)
	ReleaseResources(ctx context.Context, allocations []models.LinkAllocation) error
}

// Registry records which packet intent is provisioning a (src, dst) pair and
// the optical intents submitted for it.
type Registry interface {
	// Claim records owner for the pair. It returns false when the pair is already claimed.
	Claim(ctx context.Context, src, dst models.ConnectPoint, owner models.IntentKey) (bool, error)

	// Bind attaches the submitted optical intents to an existing claim.
	Bind(ctx context.Context, src, dst models.ConnectPoint, optical []models.IntentKey) error

	// Owner returns the packet intent currently holding the pair.
	Owner(ctx context.Context, src, dst models.ConnectPoint) (models.IntentKey, bool, error)

	// Release drops the claim on the pair.
	Release(ctx context.Context, src, dst models.ConnectPoint) error

	// ReleaseByOptical drops the claim that the given optical intent is bound to.
	ReleaseByOptical(ctx context.Context, key models.IntentKey) (bool, error)
}
