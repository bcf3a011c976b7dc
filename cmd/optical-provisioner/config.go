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

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/carverauto/lightpath/pkg/cluster"
	"github.com/carverauto/lightpath/pkg/logger"
	"github.com/carverauto/lightpath/pkg/models"
	"github.com/carverauto/lightpath/pkg/natsutil"
	"github.com/carverauto/lightpath/pkg/optical"
)

const (
	defaultStream          = "LIGHTPATH_INTENTS"
	defaultConsumer        = "optical-provisioner"
	defaultEventSubject    = "lightpath.intents.events"
	defaultSubmitSubject   = "lightpath.intents.submit"
	defaultShutdownTimeout = models.Duration(15 * time.Second)
	defaultLeaseTTL        = models.Duration(30 * time.Second)
	minLeaseTTL            = 3 * time.Second
)

var (
	errTopologyFileRequired = errors.New("topology_file is required")
	errSubjectOverlap       = errors.New("events.subject and submit_subject must differ")
	errLeaseTTLTooShort     = fmt.Errorf("lease_ttl must be at least %s", minLeaseTTL)
)

// ServiceConfig is the configuration of the optical-provisioner binary.
type ServiceConfig struct {
	NATS          models.NATSConfig          `json:"nats"`
	Events        natsutil.EventSourceConfig `json:"events"`
	SubmitSubject string                     `json:"submit_subject"`

	// Empty bucket names keep that state in process memory, which is only
	// safe for a single node.
	IntentStateBucket string `json:"intent_state_bucket,omitempty"`
	RegistryBucket    string `json:"registry_bucket,omitempty"`
	ResourceBucket    string `json:"resource_bucket,omitempty"`

	// ListenAddr enables the HTTP status API when set.
	ListenAddr string `json:"listen_addr,omitempty"`

	Cluster         cluster.Config  `json:"cluster"`
	TopologyFile    string          `json:"topology_file"`
	Optical         *optical.Config `json:"optical,omitempty"`
	Logging         *logger.Config  `json:"logging,omitempty"`
	ShutdownTimeout models.Duration `json:"shutdown_timeout,omitempty"`

	// LeaseTTL is how long registry claims and mastership records outlive
	// the node that wrote them. They are renewed every third of it.
	LeaseTTL models.Duration `json:"lease_ttl,omitempty"`
}

// Validate fills in defaults and reports every invalid field.
func (c *ServiceConfig) Validate() error {
	if c.Events.Stream == "" {
		c.Events.Stream = defaultStream
	}

	if c.Events.Consumer == "" {
		c.Events.Consumer = defaultConsumer
	}

	if c.Events.Subject == "" {
		c.Events.Subject = defaultEventSubject
	}

	if c.SubmitSubject == "" {
		c.SubmitSubject = defaultSubmitSubject
	}

	if c.Optical == nil {
		c.Optical = optical.DefaultConfig()
	}

	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = defaultShutdownTimeout
	}

	if c.LeaseTTL == 0 {
		c.LeaseTTL = defaultLeaseTTL
	}

	var errs []error

	if err := c.NATS.Validate(); err != nil {
		errs = append(errs, err)
	}

	if err := c.Cluster.Validate(); err != nil {
		errs = append(errs, err)
	}

	if err := c.Optical.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("optical: %w", err))
	}

	if c.TopologyFile == "" {
		errs = append(errs, errTopologyFileRequired)
	}

	if c.Events.Subject == c.SubmitSubject {
		errs = append(errs, errSubjectOverlap)
	}

	if time.Duration(c.LeaseTTL) < minLeaseTTL {
		errs = append(errs, errLeaseTTLTooShort)
	}

	return errors.Join(errs...)
}
