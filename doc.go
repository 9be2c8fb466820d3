// Package tributary provides a toolkit for building REST API data connectors
// with built-in rate limiting, retrying HTTP requests, and pagination.
//
// A connector wraps an upstream HTTP API behind a uniform extraction
// interface. The toolkit supplies the plumbing every connector needs:
//
//   - Sliding-window rate limiting that caps calls per rolling period
//     (clients.SlidingWindowLimiter).
//
//   - Retrying requests with exponential backoff between attempts
//     (base.RetryPolicy), with the rate limit honored before every attempt.
//
//   - Record extraction from common response envelopes and dotted-path
//     lookup into nested payloads (base.RecordsOf, base.NestedValue).
//
//   - Lazy offset and cursor pagination (base.PageIterator) that stops on
//     empty pages, short pages, page caps, or fetch failures.
//
// Concrete connectors embed base.BaseConnector, implement the
// core.Connector interface, and register a factory with the registry
// package so they can be created by name:
//
//	cfg := config.NewConnectorConfig("https://api.github.com")
//	cfg.APIKey = os.Getenv("GITHUB_TOKEN")
//
//	conn, err := registry.Create("github", cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer conn.Close()
//
//	records, err := conn.Extract(ctx, map[string]string{"username": "torvalds"})
//
// The cmd/tributary CLI exposes registered connectors and streams extracted
// records as newline-delimited JSON.
package tributary
