// Copyright (c) 2026 SightAssist Labs <dev@sightassist.io>.
// SPDX-License-Identifier: Apache-2.0

// Package command defines the CLI command set for sightctl. It wires flags,
// validators, actions, and shell completion for subcommands.
package command
