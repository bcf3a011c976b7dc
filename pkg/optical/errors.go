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

var (
	ErrConfigNil               = errors.New("config cannot be nil")
	ErrInvalidConcurrency      = errors.New("max_concurrent_events must not be negative")
	ErrMissingAppID            = errors.New("app_id is required")
	ErrMissingDependency       = errors.New("provisioner dependency is required")
	ErrEventSourceRequired     = errors.New("event source is required to start the provisioner")
	ErrAlreadyStarted          = errors.New("provisioner already started")
	ErrOddCrossConnectPoints   = errors.New("cross connect points must come in pairs")
	ErrMissingOpticalType      = errors.New("optical link is missing the optical.type annotation")
	ErrUnsupportedIntentKind   = errors.New("unsupported intent type")
	ErrUnresolvedEndpoint      = errors.New("intent endpoint could not be resolved")
	ErrRegistryEntryNotClaimed = errors.New("registry pair is not claimed")
)
