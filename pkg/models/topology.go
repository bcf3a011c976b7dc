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
	"strconv"
	"strings"
)

// DeviceID identifies an infrastructure device in the topology.
type DeviceID string

// PortNumber identifies a port on a device.
type PortNumber uint64

// NodeID identifies a controller instance in the cluster.
type NodeID string

// HostID identifies an end host attached to the network.
type HostID string

// ConnectPoint is a (device, port) pair in the topology graph.
type ConnectPoint struct {
	DeviceID DeviceID   `json:"device_id"`
	Port     PortNumber `json:"port"`
}

// NewConnectPoint returns the connect point for the given device and port.
func NewConnectPoint(device DeviceID, port PortNumber) ConnectPoint {
	return ConnectPoint{DeviceID: device, Port: port}
}

// IsZero reports whether the connect point is unset.
func (c ConnectPoint) IsZero() bool {
	return c.DeviceID == ""
}

func (c ConnectPoint) String() string {
	return fmt.Sprintf("%s/%d", c.DeviceID, c.Port)
}

// ParseConnectPoint parses the "device/port" form produced by String.
func ParseConnectPoint(s string) (ConnectPoint, error) {
	idx := strings.LastIndex(s, "/")
	if idx <= 0 || idx == len(s)-1 {
		return ConnectPoint{}, fmt.Errorf("%w: %q", ErrInvalidConnectPoint, s)
	}

	port, err := strconv.ParseUint(s[idx+1:], 10, 64)
	if err != nil {
		return ConnectPoint{}, fmt.Errorf("%w: %q: %w", ErrInvalidConnectPoint, s, err)
	}

	return NewConnectPoint(DeviceID(s[:idx]), PortNumber(port)), nil
}

// LinkType distinguishes packet-layer links from optical transport links.
type LinkType string

const (
	LinkTypeDirect   LinkType = "DIRECT"
	LinkTypeIndirect LinkType = "INDIRECT"
	LinkTypeOptical  LinkType = "OPTICAL"
)

// LinkState is the operational state of a link.
type LinkState string

const (
	LinkStateActive   LinkState = "ACTIVE"
	LinkStateInactive LinkState = "INACTIVE"
)

const (
	// AnnotationOpticalType names the annotation that classifies optical links.
	AnnotationOpticalType = "optical.type"
	// OpticalTypeCrossConnect marks a link sitting on the packet/optical seam.
	OpticalTypeCrossConnect = "cross-connect"
)

// Annotations holds free-form key/value metadata attached to topology elements.
type Annotations map[string]string

// Value returns the annotation stored under key, or "" when absent.
func (a Annotations) Value(key string) string {
	if a == nil {
		return ""
	}

	return a[key]
}

// Link is a connection between two connect points.
type Link struct {
	Src         ConnectPoint `json:"src"`
	Dst         ConnectPoint `json:"dst"`
	Type        LinkType     `json:"type"`
	State       LinkState    `json:"state"`
	Annotations Annotations  `json:"annotations,omitempty"`
}

func (l Link) String() string {
	return fmt.Sprintf("%s->%s[%s]", l.Src, l.Dst, l.Type)
}

// IsActive reports whether the link is usable. Links with no reported state are treated as active.
func (l Link) IsActive() bool {
	return l.State != LinkStateInactive
}

// TopologyEdge wraps a link as seen by graph search.
type TopologyEdge struct {
	Link Link
}

// Path is an ordered list of links from Src to Dst.
type Path struct {
	Src   ConnectPoint `json:"src"`
	Dst   ConnectPoint `json:"dst"`
	Links []Link       `json:"links"`
	Cost  float64      `json:"cost"`
}

// NewPath builds a path over links, taking the endpoints from the first and last link.
func NewPath(links []Link, cost float64) Path {
	p := Path{Links: links, Cost: cost}
	if len(links) > 0 {
		p.Src = links[0].Src
		p.Dst = links[len(links)-1].Dst
	}

	return p
}

// Validate checks that every link starts on the device where the previous one ended.
func (p Path) Validate() error {
	for i := 1; i < len(p.Links); i++ {
		if p.Links[i-1].Dst.DeviceID != p.Links[i].Src.DeviceID {
			return fmt.Errorf("%w: link %d ends at %s, link %d starts at %s",
				ErrPathNotContiguous, i-1, p.Links[i-1].Dst, i, p.Links[i].Src)
		}
	}

	return nil
}

// DeviceType classifies devices by the transport technology they carry.
type DeviceType string

const (
	DeviceTypeSwitch      DeviceType = "SWITCH"
	DeviceTypeRouter      DeviceType = "ROUTER"
	DeviceTypeROADM       DeviceType = "ROADM"
	DeviceTypeOTN         DeviceType = "OTN"
	DeviceTypeFiberSwitch DeviceType = "FIBER_SWITCH"
	DeviceTypeOther       DeviceType = "OTHER"
)

// Device is an inventory entry for a network element.
type Device struct {
	ID          DeviceID    `json:"id"`
	Type        DeviceType  `json:"type"`
	Annotations Annotations `json:"annotations,omitempty"`
}

// PortKind describes the role of a port.
type PortKind string

const (
	PortKindCopper PortKind = "COPPER"
	PortKindFiber  PortKind = "FIBER"
	PortKindOCh    PortKind = "OCH"
	PortKindOMS    PortKind = "OMS"
	// PortKindODUClt is a client-facing OTN port.
	PortKindODUClt PortKind = "ODUCLT"
)

// Port is an inventory entry for a device port.
type Port struct {
	Number  PortNumber `json:"number"`
	Kind    PortKind   `json:"kind"`
	Enabled bool       `json:"enabled"`
}

// Host is an end station and its current attachment point.
type Host struct {
	ID       HostID       `json:"id"`
	Location ConnectPoint `json:"location"`
}

// LinkWeight assigns a traversal cost to an edge. A negative weight excludes
// the edge from path computation.
type LinkWeight interface {
	Weight(edge TopologyEdge) float64
}

// LinkWeightFunc adapts a plain function to LinkWeight.
type LinkWeightFunc func(edge TopologyEdge) float64

func (f LinkWeightFunc) Weight(edge TopologyEdge) float64 {
	return f(edge)
}
