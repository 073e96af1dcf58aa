// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package gc provides buffer pooling helpers that reduce garbage collector
// overhead for I/O heavy paths such as reading CT log responses. It wraps
// [github.com/valyala/bytebufferpool] behind small interfaces so callers do
// not depend on the pool implementation directly.
package gc
