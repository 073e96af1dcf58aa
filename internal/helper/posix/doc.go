// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package posix provides small cross-platform helpers for process metadata,
// such as deriving a clean executable name for CLI usage strings.
package posix
