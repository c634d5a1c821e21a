// Praesidio - Security Telemetry and Threat Detection Core
// Copyright 2026 Petra M. (petram44)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petram44/praesidio

// Package validation wraps go-playground/validator v10 behind a thread-safe
// singleton with human-readable error translation.
//
// Request DTOs declare constraints with validate tags:
//
//	type SilenceAlertRequest struct {
//	    DurationMinutes int `validate:"required,min=1,max=10080"`
//	}
//
// Handlers validate and convert failures to the API error shape:
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    // respond 400 with apiErr.Code / apiErr.Message / apiErr.Details
//	}
package validation
