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
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/carverauto/lightpath/pkg/logger"
	"github.com/carverauto/lightpath/pkg/models"
)

// Dependencies are the collaborators the provisioner drives. Registry is
// optional and defaults to an in-process MemoryRegistry.
type Dependencies struct {
	Intents         IntentService
	Events          EventSource
	Paths           PathService
	Hosts           HostService
	Devices         DeviceService
	Mastership      MastershipService
	Cluster         ClusterService
	DeviceResources DeviceResourceService
	LinkResources   LinkResourceService
	Registry        Registry
}

func (d *Dependencies) validate() error {
	required := map[string]interface{}{
		"intents":          d.Intents,
		"paths":            d.Paths,
		"hosts":            d.Hosts,
		"devices":          d.Devices,
		"mastership":       d.Mastership,
		"cluster":          d.Cluster,
		"device_resources": d.DeviceResources,
		"link_resources":   d.LinkResources,
	}

	var errs []error

	for name, dep := range required {
		if dep == nil {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingDependency, name))
		}
	}

	return errors.Join(errs...)
}

// Provisioner listens for intent lifecycle events. When a packet intent fails
// it looks for a multi-layer path, and submits one optical connectivity intent
// per optical section of that path. When an optical intent is withdrawn it
// releases the resources reserved for it.
type Provisioner struct {
	config   *Config
	deps     Dependencies
	registry Registry
	logger   logger.Logger
	tracer   trace.Tracer
	metrics  *provisionerMetrics

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

// NewProvisioner validates config and dependencies and returns an idle provisioner.
func NewProvisioner(config *Config, deps Dependencies, log logger.Logger) (*Provisioner, error) {
	if config == nil {
		return nil, ErrConfigNil
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	if err := deps.validate(); err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	registry := deps.Registry
	if registry == nil {
		registry = NewMemoryRegistry()
	}

	log = log.WithComponent("optical-provisioner")

	return &Provisioner{
		config:   config,
		deps:     deps,
		registry: registry,
		logger:   log,
		tracer:   otel.Tracer(instrumentationName),
		metrics:  newProvisionerMetrics(otel.Meter(instrumentationName), log),
	}, nil
}

// Start subscribes to the event source and processes events until Stop is
// called or ctx is canceled.
func (p *Provisioner) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return ErrAlreadyStarted
	}

	if p.deps.Events == nil {
		return ErrEventSourceRequired
	}

	runCtx, cancel := context.WithCancel(ctx)

	events, err := p.deps.Events.Subscribe(runCtx)
	if err != nil {
		cancel()

		return fmt.Errorf("failed to subscribe to intent events: %w", err)
	}

	p.cancel = cancel
	p.done = make(chan struct{})
	p.started = true

	go func() {
		defer close(p.done)

		if err := p.Run(runCtx, events); err != nil {
			p.logger.Error().Err(err).Msg("Intent event loop stopped")
		}
	}()

	p.logger.Info().Str("app_id", p.config.AppID).Msg("Started")

	return nil
}

// Stop unsubscribes and waits for in-flight events to finish or ctx to expire.
func (p *Provisioner) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()

		return nil
	}

	p.cancel()
	done := p.done
	p.started = false
	p.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	p.logger.Info().Msg("Stopped")

	return nil
}

// Run dispatches every event from events on its own goroutine, at most
// MaxConcurrentEvents at a time. It returns once events is closed or ctx is
// canceled and all dispatched handlers have returned.
func (p *Provisioner) Run(ctx context.Context, events <-chan models.IntentEvent) error {
	var g errgroup.Group

	g.SetLimit(p.config.MaxConcurrentEvents)

	for {
		select {
		case <-ctx.Done():
			return g.Wait()
		case event, ok := <-events:
			if !ok {
				return g.Wait()
			}

			g.Go(func() error {
				p.HandleEvent(ctx, event)

				return nil
			})
		}
	}
}

// HandleEvent reacts to a single lifecycle event. It never panics; failures
// are logged and the event is dropped.
func (p *Provisioner) HandleEvent(ctx context.Context, event models.IntentEvent) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().
				Interface("panic", r).
				Str("event_type", string(event.Type)).
				Msg("Recovered from panic while handling intent event")
		}
	}()

	if event.Subject == nil {
		p.logger.Warn().Str("event_type", string(event.Type)).Msg("Ignoring intent event without subject")

		return
	}

	p.metrics.recordEvent(ctx, string(event.Type))

	switch event.Type {
	case models.IntentEventInstallReq:
	case models.IntentEventInstalled:
	case models.IntentEventFailed:
		p.logger.Info().Str("intent", event.Subject.String()).
			Msg("Intent failed, calling optical path provisioning")

		if event.Subject.IsOptical() {
			p.releaseFailedOptical(ctx, event.Subject)
		}

		p.setupLightpath(ctx, event.Subject)
	case models.IntentEventWithdrawn:
		p.logger.Info().Str("intent", event.Subject.String()).Msg("Intent withdrawn")
		p.withdrawIntent(ctx, event.Subject)
	default:
	}
}

func (p *Provisioner) setupLightpath(ctx context.Context, intent *models.Intent) {
	ctx, span := p.tracer.Start(ctx, "optical.setup_lightpath",
		trace.WithAttributes(attribute.String("intent.key", string(intent.Key))))
	defer span.End()

	// FAILED can be redelivered after the intent has already recovered.
	state, err := p.deps.Intents.GetIntentState(ctx, intent.Key)
	if err != nil {
		p.logger.Debug().Err(err).Str("intent_key", string(intent.Key)).Msg("Could not query intent state")

		return
	}

	if state != models.IntentStateFailed {
		return
	}

	src, dst, err := p.resolveEndpoints(ctx, intent)
	if err != nil {
		if errors.Is(err, ErrUnsupportedIntentKind) {
			p.logger.Error().Err(err).Str("kind", string(intent.Kind)).Msg("Unsupported intent type")
		} else {
			p.logger.Debug().Err(err).Str("intent_key", string(intent.Key)).Msg("Intent endpoints unresolved")
		}

		return
	}

	if !p.isLocalMaster(ctx, src.DeviceID) {
		return
	}

	claimed, err := p.registry.Claim(ctx, src, dst, intent.Key)
	if err != nil {
		p.logger.Error().Err(err).Str("src", src.String()).Str("dst", dst.String()).
			Msg("Failed to claim connect point pair")

		return
	}

	if !claimed {
		p.logger.Debug().Str("src", src.String()).Str("dst", dst.String()).
			Msg("Connect point pair is already being provisioned")

		return
	}

	// The claim is dropped unless optical intents end up bound to it,
	// including when a malformed path panics below.
	bound := false

	defer func() {
		if bound {
			return
		}

		if err := p.registry.Release(ctx, src, dst); err != nil {
			p.logger.Error().Err(err).Msg("Failed to release connect point pair")
		}
	}()

	intents, err := p.getOpticalIntents(ctx, src, dst)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "path search failed")
		p.logger.Error().Err(err).Str("src", src.String()).Str("dst", dst.String()).Msg("Path search failed")

		return
	}

	submitted := p.submitIntents(ctx, intents)
	span.SetAttributes(attribute.Int("optical.intents", len(submitted)))

	if len(submitted) == 0 {
		return
	}

	if err := p.registry.Bind(ctx, src, dst, submitted); err != nil {
		p.logger.Error().Err(err).Msg("Failed to record optical intents for connect point pair")

		return
	}

	bound = true
}

// resolveEndpoints derives the packet-layer ingress and egress of intent.
func (p *Provisioner) resolveEndpoints(ctx context.Context, intent *models.Intent) (src, dst models.ConnectPoint, err error) {
	switch {
	case intent.Kind == models.IntentKindHostToHost && intent.HostToHost != nil:
		one, err := p.deps.Hosts.GetHost(ctx, intent.HostToHost.One)
		if err != nil {
			return src, dst, fmt.Errorf("%w: host %s: %w", ErrUnresolvedEndpoint, intent.HostToHost.One, err)
		}

		two, err := p.deps.Hosts.GetHost(ctx, intent.HostToHost.Two)
		if err != nil {
			return src, dst, fmt.Errorf("%w: host %s: %w", ErrUnresolvedEndpoint, intent.HostToHost.Two, err)
		}

		if one == nil || two == nil {
			return src, dst, ErrUnresolvedEndpoint
		}

		src, dst = one.Location, two.Location
	case intent.Kind == models.IntentKindPointToPoint && intent.PointToPoint != nil:
		src, dst = intent.PointToPoint.Ingress, intent.PointToPoint.Egress
	default:
		return src, dst, fmt.Errorf("%w: %s", ErrUnsupportedIntentKind, intent.Kind)
	}

	if src.IsZero() || dst.IsZero() {
		return src, dst, ErrUnresolvedEndpoint
	}

	return src, dst, nil
}

// isLocalMaster reports whether this node masters device. Only the master of
// the intent's origin device provisions, so the cluster does not submit
// duplicates.
func (p *Provisioner) isLocalMaster(ctx context.Context, device models.DeviceID) bool {
	master, err := p.deps.Mastership.GetMasterFor(ctx, device)
	if err != nil {
		p.logger.Debug().Err(err).Str("device_id", string(device)).Msg("Could not resolve master")

		return false
	}

	return master == p.deps.Cluster.LocalNode()
}

// getOpticalIntents returns the optical intents needed to connect ingress and
// egress, taken from the first candidate path whose cross connect points pair
// up. It returns nil when no candidate qualifies.
func (p *Provisioner) getOpticalIntents(ctx context.Context, ingress, egress models.ConnectPoint) ([]*models.Intent, error) {
	paths, err := p.deps.Paths.GetPaths(ctx, ingress.DeviceID, egress.DeviceID, OpticalLinkWeight{})
	if err != nil {
		return nil, err
	}

	for _, path := range paths {
		points := CrossConnectPoints(path)

		if !p.checkCrossConnectPoints(ctx, points) {
			p.metrics.recordRejectedPath(ctx)

			continue
		}

		return p.buildIntents(ctx, points), nil
	}

	p.logger.Info().Str("src", ingress.String()).Str("dst", egress.String()).Int("candidates", len(paths)).
		Msg("No multi-layer path with usable cross connect points")

	return nil, nil
}

// checkCrossConnectPoints reports whether every pair of points joins devices
// of the same type.
func (p *Provisioner) checkCrossConnectPoints(ctx context.Context, points []models.ConnectPoint) bool {
	checkPairs(points)

	for i := 0; i < len(points); i += 2 {
		src, dst := points[i], points[i+1]

		srcDevice, err := p.deps.Devices.GetDevice(ctx, src.DeviceID)
		if err != nil {
			p.logger.Error().Err(err).Str("device_id", string(src.DeviceID)).Msg("Cross connect device lookup failed")

			return false
		}

		dstDevice, err := p.deps.Devices.GetDevice(ctx, dst.DeviceID)
		if err != nil {
			p.logger.Error().Err(err).Str("device_id", string(dst.DeviceID)).Msg("Cross connect device lookup failed")

			return false
		}

		if srcDevice == nil || dstDevice == nil {
			p.logger.Error().Str("src", src.String()).Str("dst", dst.String()).
				Msg("Cross connect device lookup returned no device")

			return false
		}

		if srcDevice.Type != dstDevice.Type {
			p.logger.Warn().
				Str("src", src.String()).Str("src_type", string(srcDevice.Type)).
				Str("dst", dst.String()).Str("dst_type", string(dstDevice.Type)).
				Msg("Unsupported mix of cross connect points")

			return false
		}
	}

	return true
}

// buildIntents creates one optical connectivity intent per pair of points.
func (p *Provisioner) buildIntents(ctx context.Context, points []models.ConnectPoint) []*models.Intent {
	checkPairs(points)

	intents := make([]*models.Intent, 0, len(points)/2)

	for i := 0; i < len(points); i += 2 {
		src, dst := points[i], points[i+1]

		intents = append(intents, models.NewOpticalConnectivityIntent(p.config.AppID, src, dst))

		if p.isClientPortPair(ctx, src, dst) {
			// TODO: also submit an OTN service between the client ports once an OTN intent kind exists.
			p.logger.Debug().Str("src", src.String()).Str("dst", dst.String()).
				Msg("Cross connect points are ODU client ports")
		}
	}

	return intents
}

func (p *Provisioner) isClientPortPair(ctx context.Context, src, dst models.ConnectPoint) bool {
	srcPort, err := p.deps.Devices.GetPort(ctx, src.DeviceID, src.Port)
	if err != nil || srcPort == nil {
		return false
	}

	dstPort, err := p.deps.Devices.GetPort(ctx, dst.DeviceID, dst.Port)
	if err != nil || dstPort == nil {
		return false
	}

	return srcPort.Kind == models.PortKindODUClt && dstPort.Kind == models.PortKindODUClt
}

// submitIntents submits every intent and returns the keys that were accepted.
func (p *Provisioner) submitIntents(ctx context.Context, intents []*models.Intent) []models.IntentKey {
	submitted := make([]models.IntentKey, 0, len(intents))

	for _, intent := range intents {
		if err := p.deps.Intents.Submit(ctx, intent); err != nil {
			p.logger.Error().Err(err).Str("intent", intent.String()).Msg("Failed to submit optical intent")

			continue
		}

		p.logger.Info().Str("intent", intent.String()).
			Str("src", intent.Optical.Src.String()).Str("dst", intent.Optical.Dst.String()).
			Msg("Submitted optical intent")

		submitted = append(submitted, intent.Key)
	}

	p.metrics.recordSubmitted(ctx, len(submitted))

	return submitted
}

// releaseFailedOptical frees the pair a failed optical intent was bound to,
// so the next FAILED event of the packet intent can provision it again.
func (p *Provisioner) releaseFailedOptical(ctx context.Context, intent *models.Intent) {
	released, err := p.registry.ReleaseByOptical(ctx, intent.Key)
	if err != nil {
		p.logger.Error().Err(err).Str("intent_key", string(intent.Key)).Msg("Failed to release connect point pair")

		return
	}

	if released {
		p.logger.Info().Str("intent_key", string(intent.Key)).Msg("Released connect point pair of failed optical intent")
	}
}

// withdrawIntent releases the resources held by a withdrawn optical intent.
func (p *Provisioner) withdrawIntent(ctx context.Context, intent *models.Intent) {
	if !intent.IsOptical() {
		// TODO: release packet layer resources once packet intents are tracked on INSTALLED.
		return
	}

	if err := p.deps.DeviceResources.ReleasePorts(ctx, intent.ID); err != nil {
		p.logger.Error().Err(err).Str("intent_id", string(intent.ID)).Msg("Failed to release ports")
	}

	allocations, err := p.deps.LinkResources.GetAllocations(ctx, intent.ID)
	if err != nil {
		p.logger.Error().Err(err).Str("intent_id", string(intent.ID)).Msg("Failed to look up link allocations")
	} else if err := p.deps.LinkResources.ReleaseResources(ctx, allocations); err != nil {
		p.logger.Error().Err(err).Str("intent_id", string(intent.ID)).Msg("Failed to release link allocations")
	}

	if _, err := p.registry.ReleaseByOptical(ctx, intent.Key); err != nil {
		p.logger.Error().Err(err).Str("intent_key", string(intent.Key)).Msg("Failed to release connect point pair")
	}
}
