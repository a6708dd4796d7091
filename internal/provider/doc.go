// Package provider is the HTTP client for the ScreenScraper.fr metadata
// service: match-by-identity and search-by-name requests, XML response
// parsing into a domain GameInfo, and the fatal/retryable/not-found
// error taxonomy that drives the scheduler's retry behavior.
package provider
