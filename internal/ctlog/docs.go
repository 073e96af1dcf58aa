// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package ctlog implements the certificate search engine backed by a
// [Certificate Transparency] log search service such as [crt.sh]. It covers
// query construction from a domain and match mode, retrieval of matching
// certificate records, and bounding of the result set. Certificate fields
// are treated as opaque values supplied by the external source; this package
// performs no X.509 parsing or cryptographic verification.
//
// [Certificate Transparency]: https://certificate.transparency.dev/
// [crt.sh]: https://crt.sh/
package ctlog
