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
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/lightpath/pkg/api"
	"github.com/carverauto/lightpath/pkg/cluster"
	"github.com/carverauto/lightpath/pkg/kv"
	"github.com/carverauto/lightpath/pkg/logger"
	"github.com/carverauto/lightpath/pkg/models"
	"github.com/carverauto/lightpath/pkg/natsutil"
	"github.com/carverauto/lightpath/pkg/optical"
	"github.com/carverauto/lightpath/pkg/resource"
	"github.com/carverauto/lightpath/pkg/topology"
	"github.com/carverauto/lightpath/pkg/version"
)

const eventSource = "lightpath/optical-provisioner"

// provisionerService wires the provisioner to NATS and the local topology
// and owns their lifetimes.
type provisionerService struct {
	config *ServiceConfig
	logger logger.Logger

	nc          *nats.Conn
	stores      []kv.KVStore
	topo        *topology.Store
	mastership  *cluster.Mastership
	registry    *optical.KVRegistry
	provisioner *optical.Provisioner
	api         *api.Server

	// claimed belongs to the lease loop while it runs.
	claimed     []models.DeviceID
	stopLeases  context.CancelFunc
	leasesGroup sync.WaitGroup
}

func newProvisionerService(ctx context.Context, cfg *ServiceConfig, log logger.Logger) (*provisionerService, error) {
	svc := &provisionerService{config: cfg, logger: log}

	if err := svc.build(ctx); err != nil {
		svc.close()

		return nil, err
	}

	return svc, nil
}

func (s *provisionerService) build(ctx context.Context) error {
	nc, err := natsutil.Connect(&s.config.NATS, defaultConsumer, s.logger)
	if err != nil {
		return err
	}

	s.nc = nc

	js, err := natsutil.NewJetStream(nc, s.config.NATS.Domain)
	if err != nil {
		return err
	}

	if _, err := natsutil.EnsureStream(ctx, js, s.config.Events.Stream, s.config.Events.Subject, s.config.SubmitSubject); err != nil {
		return err
	}

	leaseTTL := time.Duration(s.config.LeaseTTL)

	states, err := s.openStore(ctx, js, s.config.IntentStateBucket, 0)
	if err != nil {
		return err
	}

	registryStore, err := s.openStore(ctx, js, s.config.RegistryBucket, leaseTTL)
	if err != nil {
		return err
	}

	resourceStore, err := s.openStore(ctx, js, s.config.ResourceBucket, 0)
	if err != nil {
		return err
	}

	var masterStore kv.KVStore

	if s.config.Cluster.Bucket != "" {
		if masterStore, err = s.openStore(ctx, js, s.config.Cluster.Bucket, leaseTTL); err != nil {
			return err
		}
	}

	topo := topology.NewStore(s.logger)
	if err := topo.LoadFile(s.config.TopologyFile); err != nil {
		return err
	}

	s.topo = topo

	mastership, err := cluster.NewMastership(s.config.Cluster, masterStore, s.logger)
	if err != nil {
		return err
	}

	s.mastership = mastership

	tracker := resource.NewTracker(resourceStore, s.logger)
	intents := natsutil.NewIntentClient(js, states, s.config.SubmitSubject, eventSource, s.logger)
	registry := optical.NewKVRegistry(registryStore)
	s.registry = registry

	provisioner, err := optical.NewProvisioner(s.config.Optical, optical.Dependencies{
		Intents:         intents,
		Events:          natsutil.NewIntentEventSource(js, s.config.Events, s.logger),
		Paths:           topo,
		Hosts:           topo,
		Devices:         topo,
		Mastership:      mastership,
		Cluster:         mastership,
		DeviceResources: tracker,
		LinkResources:   tracker,
		Registry:        registry,
	}, s.logger)
	if err != nil {
		return err
	}

	s.provisioner = provisioner

	if s.config.ListenAddr != "" {
		s.api = api.NewServer(s.config.ListenAddr, version.String(), api.Dependencies{
			Registry: registry,
			Intents:  intents,
			Ports:    tracker,
			Devices:  topo,
		}, s.logger)
	}

	claimed, err := mastership.Claim(ctx, topo.Devices())
	if err != nil {
		return fmt.Errorf("failed to claim device mastership: %w", err)
	}

	s.claimed = claimed

	s.logger.Info().
		Int("devices", len(topo.Devices())).
		Int("mastered", len(claimed)).
		Msg("Loaded topology")

	return nil
}

// openStore returns a NATS KV bucket whose records expire after ttl (zero keeps
// them forever), or a process-local store when bucket is empty.
func (s *provisionerService) openStore(ctx context.Context, js jetstream.JetStream, bucket string, ttl time.Duration) (kv.KVStore, error) {
	var store kv.KVStore

	if bucket == "" {
		store = kv.NewMemoryStore()
	} else {
		natsStore, err := kv.NewNatsStore(ctx, js, bucket, ttl)
		if err != nil {
			return nil, fmt.Errorf("failed to open bucket %s: %w", bucket, err)
		}

		store = natsStore
	}

	s.stores = append(s.stores, store)

	return store, nil
}

func (s *provisionerService) Start(ctx context.Context) error {
	if err := s.provisioner.Start(ctx); err != nil {
		return err
	}

	s.startLeases(ctx)

	if s.api == nil {
		return nil
	}

	if err := s.api.Start(ctx); err != nil {
		return errors.Join(err, s.Stop(ctx))
	}

	return nil
}

func (s *provisionerService) Stop(ctx context.Context) error {
	s.stopLeaseLoop()

	var errs []error

	if s.api != nil {
		if err := s.api.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop api server: %w", err))
		}
	}

	if err := s.provisioner.Stop(ctx); err != nil {
		errs = append(errs, err)
	}

	if s.mastership != nil && len(s.claimed) > 0 {
		if err := s.mastership.Relinquish(ctx, s.claimed); err != nil {
			errs = append(errs, fmt.Errorf("failed to relinquish mastership: %w", err))
		}
	}

	s.close()

	return errors.Join(errs...)
}

// startLeases renews mastership records and registry claims three times per
// lease TTL, and picks up devices whose master stopped renewing.
func (s *provisionerService) startLeases(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.stopLeases = cancel

	interval := time.Duration(s.config.LeaseTTL) / 3

	s.leasesGroup.Add(1)

	go func() {
		defer s.leasesGroup.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.renewLeases(ctx)
			}
		}
	}()
}

func (s *provisionerService) stopLeaseLoop() {
	if s.stopLeases == nil {
		return
	}

	s.stopLeases()
	s.leasesGroup.Wait()
	s.stopLeases = nil
}

func (s *provisionerService) renewLeases(ctx context.Context) {
	claimed, err := s.mastership.Claim(ctx, s.topo.Devices())
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to renew device mastership")
	} else {
		if len(claimed) != len(s.claimed) {
			s.logger.Info().
				Int("previous", len(s.claimed)).
				Int("mastered", len(claimed)).
				Msg("Device mastership changed")
		}

		s.claimed = claimed
	}

	if err := s.registry.Refresh(ctx); err != nil {
		s.logger.Warn().Err(err).Int("held", s.registry.Held()).Msg("Failed to refresh optical registry claims")
	}
}

func (s *provisionerService) close() {
	for _, store := range s.stores {
		if err := store.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to close store")
		}
	}

	s.stores = nil

	if s.nc != nil {
		if err := s.nc.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to drain NATS connection")
			s.nc.Close()
		}

		s.nc = nil
	}
}

func (s *provisionerService) shutdownTimeout() time.Duration {
	return time.Duration(s.config.ShutdownTimeout)
}
