// Package log provides logging with automatic credential redaction,
// built on top of the standard slog package.
//
// The crawler logs every URL it visits, and URLs on protected
// documentation sites can embed userinfo or access tokens. The
// RedactHandler scrubs those before the record reaches the underlying
// handler:
//   - userinfo (user:pass@) is removed from URL-valued attributes
//   - token-bearing query parameters (token, key, sig, ...) are masked
//   - attributes with known-sensitive keys (Authorization, cookie, ...)
//     are masked outright
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	logger.Info("fetching",
//	    "url", "https://user:pw@docs.example.com/a",  // userinfo removed
//	)
package log
