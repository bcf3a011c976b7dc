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

// Command optical-provisioner reacts to failed packet intents by
// provisioning optical connectivity across the multi-layer topology.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/carverauto/lightpath/pkg/config"
	"github.com/carverauto/lightpath/pkg/lifecycle"
	"github.com/carverauto/lightpath/pkg/logger"
	"github.com/carverauto/lightpath/pkg/version"
)

const serviceName = "optical-provisioner"

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "/etc/lightpath/optical-provisioner.json", "Path to config file")
	showVersion := flag.Bool("version", false, "Print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())

		return nil
	}

	ctx := context.Background()

	bootLog, err := lifecycle.CreateLogger(nil)
	if err != nil {
		return err
	}

	var cfg ServiceConfig

	if err := config.NewConfig(bootLog).LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	svcLog, err := lifecycle.CreateComponentLogger(serviceName, cfg.Logging)
	if err != nil {
		return err
	}

	svcLog.Info().Str("version", version.String()).Msg("Starting")

	shutdownTracing := initTracing(ctx, &cfg, svcLog)
	defer shutdownTracing()

	svc, err := newProvisionerService(ctx, &cfg, svcLog)
	if err != nil {
		return fmt.Errorf("failed to initialize provisioner: %w", err)
	}

	return lifecycle.RunService(ctx, &lifecycle.ServiceOptions{
		ServiceName:     serviceName,
		Service:         svc,
		ShutdownTimeout: svc.shutdownTimeout(),
		Logger:          svcLog,
	})
}

func initTracing(ctx context.Context, cfg *ServiceConfig, log logger.Logger) func() {
	var otelCfg *logger.OTelConfig
	if cfg.Logging != nil {
		otelCfg = cfg.Logging.OTel
	}

	tp, err := logger.InitializeTracing(ctx, logger.TracingConfig{
		ServiceName:    serviceName,
		ServiceVersion: version.Version(),
		Logger:         log,
		OTel:           otelCfg,
	})
	if errors.Is(err, logger.ErrTracingDisabled) {
		return func() {}
	}

	if err != nil {
		log.Warn().Err(err).Msg("Tracing unavailable")

		return func() {}
	}

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("Failed to flush traces")
		}
	}
}
