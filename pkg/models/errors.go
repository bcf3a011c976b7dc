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

import "errors"

var (
	ErrInvalidConnectPoint = errors.New("invalid connect point")
	ErrPathNotContiguous   = errors.New("path is not contiguous")
	ErrUnknownIntentKind   = errors.New("unknown intent kind")
	ErrInvalidDuration     = errors.New("invalid duration")
	ErrHostNotFound        = errors.New("host not found")
	ErrDeviceNotFound      = errors.New("device not found")
	ErrPortNotFound        = errors.New("port not found")
	ErrIntentNotFound      = errors.New("intent not found")
)
