// Copyright (c) 2026 SightAssist Labs <dev@sightassist.io>.
// SPDX-License-Identifier: Apache-2.0

// Package version carries the build version stamped in at release time.
package version

// Version is overridden via -ldflags at build time.
var Version = "dev"
