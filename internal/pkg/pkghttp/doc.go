// Package pkghttp constructs the process-wide HTTP client.
//
// The client is built once at startup and injected into every component
// that talks to the network. It retries transient failures (connection
// errors and a configurable set of status codes) with exponential backoff,
// so callers never retry locally; whatever error they see has already
// exhausted the retry budget.
package pkghttp
