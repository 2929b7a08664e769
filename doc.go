// Copyright (c) 2026 SightAssist Labs <dev@sightassist.io>.
// SPDX-License-Identifier: Apache-2.0

// sightctl is the main package for the SightAssist fleet control tool. It
// wires the CLI, delegates to internal packages, and serves as the entry
// point.
package main
