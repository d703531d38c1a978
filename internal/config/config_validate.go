// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct tags on every sub-config via
// go-playground/validator/v10, then enforces the one cross-field rule
// the tags can't express: at least one of CronSecret or
// AdminBearerToken must be set, since the invocation contract requires
// one working auth path.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Security.CronSecret == "" && c.Security.AdminBearerToken == "" {
		return fmt.Errorf("at least one of CRON_SECRET or ADMIN_BEARER_TOKEN must be set")
	}
	return nil
}
