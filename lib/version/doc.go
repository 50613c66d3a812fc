// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports the build of bureau-room-state for its
// --version flag.
//
// Release builds inject the details via -ldflags, for example:
//
//	go build -ldflags "-X github.com/bureau-foundation/roomstate/lib/version.Commit=$(git rev-parse --short HEAD)"
//
// Anything not injected is read from the VCS stamp in the binary's
// build info.
package version
