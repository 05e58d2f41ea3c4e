// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

package models

// AppBuildInfo carries build-time metadata injected via -ldflags.
type AppBuildInfo struct {
	Version string
	Date    string
	Commit  string
}
