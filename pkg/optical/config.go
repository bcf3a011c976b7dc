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

import "errors"

const (
	DefaultAppID               = "org.carverauto.lightpath.optical"
	DefaultMaxConcurrentEvents = 16
)

// Config controls the provisioner.
type Config struct {
	// AppID is stamped on every optical intent the provisioner submits.
	AppID string `json:"app_id"`
	// MaxConcurrentEvents bounds the number of events handled in parallel.
	// Zero selects DefaultMaxConcurrentEvents.
	MaxConcurrentEvents int `json:"max_concurrent_events"`
}

// DefaultConfig returns a config populated with defaults.
func DefaultConfig() *Config {
	return &Config{
		AppID:               DefaultAppID,
		MaxConcurrentEvents: DefaultMaxConcurrentEvents,
	}
}

// Validate fills in defaults and rejects invalid values.
func (c *Config) Validate() error {
	var errs []error

	if c.AppID == "" {
		errs = append(errs, ErrMissingAppID)
	}

	if c.MaxConcurrentEvents < 0 {
		errs = append(errs, ErrInvalidConcurrency)
	} else if c.MaxConcurrentEvents == 0 {
		c.MaxConcurrentEvents = DefaultMaxConcurrentEvents
	}

	return errors.Join(errs...)
}
