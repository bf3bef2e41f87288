// Package config handles configuration loading, parsing, and validation
// from defaults, an optional config.yaml and STOREFRONT_ environment
// variables. It provides type-safe access to settings needed by the server,
// the cart and catalog stores, the rate limiter and the token tooling.
package config
