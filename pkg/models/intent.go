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
	"fmt"
	"time"

	"github.com/google/uuid"
)

// IntentID is the immutable identity of an intent instance.
type IntentID string

// IntentKey is the identity the lifecycle manager tracks state under.
type IntentKey string

// NewIntentID returns a fresh random intent id.
func NewIntentID() IntentID {
	return IntentID(uuid.New().String())
}

// IntentKind discriminates the payload carried by an Intent.
type IntentKind string

const (
	IntentKindHostToHost          IntentKind = "HOST_TO_HOST"
	IntentKindPointToPoint        IntentKind = "POINT_TO_POINT"
	IntentKindOpticalConnectivity IntentKind = "OPTICAL_CONNECTIVITY"
)

// HostToHostSpec requests connectivity between two hosts.
type HostToHostSpec struct {
	One HostID `json:"one"`
	Two HostID `json:"two"`
}

// PointToPointSpec requests connectivity between two connect points.
type PointToPointSpec struct {
	Ingress ConnectPoint `json:"ingress"`
	Egress  ConnectPoint `json:"egress"`
}

// OpticalConnectivitySpec requests an optical layer connection between two
// cross-connect points.
type OpticalConnectivitySpec struct {
	Src ConnectPoint `json:"src"`
	Dst ConnectPoint `json:"dst"`
}

// Intent is a connectivity request owned by the intent lifecycle manager.
// Exactly one of the kind-specific fields is set, selected by Kind.
type Intent struct {
	ID           IntentID                 `json:"id"`
	Key          IntentKey                `json:"key"`
	AppID        string                   `json:"app_id"`
	Kind         IntentKind               `json:"kind"`
	HostToHost   *HostToHostSpec          `json:"host_to_host,omitempty"`
	PointToPoint *PointToPointSpec        `json:"point_to_point,omitempty"`
	Optical      *OpticalConnectivitySpec `json:"optical,omitempty"`
}

// NewHostToHostIntent builds a host-to-host intent keyed by its id.
func NewHostToHostIntent(appID string, one, two HostID) *Intent {
	id := NewIntentID()

	return &Intent{
		ID:         id,
		Key:        IntentKey(id),
		AppID:      appID,
		Kind:       IntentKindHostToHost,
		HostToHost: &HostToHostSpec{One: one, Two: two},
	}
}

// NewPointToPointIntent builds a point-to-point intent keyed by its id.
func NewPointToPointIntent(appID string, ingress, egress ConnectPoint) *Intent {
	id := NewIntentID()

	return &Intent{
		ID:           id,
		Key:          IntentKey(id),
		AppID:        appID,
		Kind:         IntentKindPointToPoint,
		PointToPoint: &PointToPointSpec{Ingress: ingress, Egress: egress},
	}
}

// NewOpticalConnectivityIntent builds an optical connectivity intent keyed by its id.
func NewOpticalConnectivityIntent(appID string, src, dst ConnectPoint) *Intent {
	id := NewIntentID()

	return &Intent{
		ID:      id,
		Key:     IntentKey(id),
		AppID:   appID,
		Kind:    IntentKindOpticalConnectivity,
		Optical: &OpticalConnectivitySpec{Src: src, Dst: dst},
	}
}

// IsOptical reports whether the intent is an optical connectivity intent.
func (i *Intent) IsOptical() bool {
	return i != nil && i.Kind == IntentKindOpticalConnectivity
}

// Validate checks that the payload matching Kind is present.
func (i *Intent) Validate() error {
	var ok bool

	switch i.Kind {
	case IntentKindHostToHost:
		ok = i.HostToHost != nil
	case IntentKindPointToPoint:
		ok = i.PointToPoint != nil
	case IntentKindOpticalConnectivity:
		ok = i.Optical != nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownIntentKind, i.Kind)
	}

	if !ok {
		return fmt.Errorf("intent %s: missing %s payload", i.Key, i.Kind)
	}

	return nil
}

func (i *Intent) String() string {
	return fmt.Sprintf("%s{key=%s, app=%s}", i.Kind, i.Key, i.AppID)
}

// IntentState is the lifecycle state of an intent.
type IntentState string

const (
	IntentStateInstallReq  IntentState = "INSTALL_REQ"
	IntentStateInstalling  IntentState = "INSTALLING"
	IntentStateInstalled   IntentState = "INSTALLED"
	IntentStateFailed      IntentState = "FAILED"
	IntentStateWithdrawing IntentState = "WITHDRAWING"
	IntentStateWithdrawn   IntentState = "WITHDRAWN"
)

// IntentEventType is the kind of lifecycle transition reported for an intent.
type IntentEventType string

const (
	IntentEventInstallReq IntentEventType = "INSTALL_REQ"
	IntentEventInstalled  IntentEventType = "INSTALLED"
	IntentEventFailed     IntentEventType = "FAILED"
	IntentEventWithdrawn  IntentEventType = "WITHDRAWN"
)

// IntentEvent reports a lifecycle transition of Subject.
type IntentEvent struct {
	Type    IntentEventType `json:"type"`
	Subject *Intent         `json:"subject"`
	Time    time.Time       `json:"time"`
}

// LinkAllocation records bandwidth reserved on a link on behalf of an intent.
type LinkAllocation struct {
	IntentID  IntentID `json:"intent_id"`
	Link      Link     `json:"link"`
	Bandwidth float64  `json:"bandwidth"`
}
