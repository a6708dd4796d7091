// Package config loads and validates curateur's TOML configuration: ROM,
// media and catalog paths, Provider credentials, region/language
// preferences, media and scraping policy, rate-limit overrides, and
// runtime hashing options.
//
// Load resolves a config file (explicit path, project-local, or
// XDG-default), decodes it over built-in defaults, normalizes path and
// list fields, and validates the result before returning it. Callers
// should never construct Config directly outside of tests.
package config
