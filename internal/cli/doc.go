// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli holds the pieces every room state command shares:
// categorized errors, the handled-exit error, and the command logger.
//
// Commands return errors rather than exiting. main inspects the
// returned error: an [ExitError] exits with its code silently, a
// [ToolError] prints its message (and hint) and exits with the code
// for its category, anything else prints and exits 1.
package cli
