// Package connector provides the framework for building REST API data
// connectors with rate limiting, retries, and pagination.
//
// The package is organized into several sub-packages:
//
//   - core: Defines the Connector interface every concrete connector
//     implements, plus the Record and Page types flowing through the
//     framework.
//
//   - base: Provides BaseConnector, the foundation handling rate-limited
//     retrying HTTP requests, response normalization, and offset/cursor
//     pagination. Concrete connectors embed BaseConnector and add their
//     upstream-specific extraction logic.
//
//   - registry: Implements a factory pattern for connector discovery and
//     instantiation. Connectors self-register during initialization.
//
//   - sources: Contains connector implementations for specific upstream
//     APIs, starting with GitHub.
//
// # Core Concepts
//
// Unified Configuration: All connectors share config.ConnectorConfig, which
// carries the base URL, credential, rate limit quota and window, retry cap,
// and request timeout.
//
// Single Ownership: A connector instance serves one extraction at a time.
// Its rate limiter and pagination iterators carry no locks; concurrent
// extractions each construct their own connector.
//
// Failure Model: A non-2xx response is a failure like any transport error.
// Every failure is retried up to the configured attempt cap with exponential
// backoff, and the rate limit is honored before every attempt. Errors during
// pagination end the page sequence; they are logged, not re-raised.
package connector
