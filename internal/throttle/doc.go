// Package throttle implements adaptive, per-endpoint rate limiting for the
// ScreenScraper client: a sliding-window call budget, progressive backoff on
// 429 responses, and bounded concurrency for API requests and media
// downloads. It also reconciles the API's advertised limits with any
// operator override into the limits actually enforced for a run.
package throttle
