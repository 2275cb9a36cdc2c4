// Package middleware provides the gin middleware stack of the bridge.
//
//   - CORS: any origin by default, exposes X-Request-ID
//   - RateLimit / GlobalRateLimit: token buckets per client IP or shared
//   - RequestID: propagates or assigns X-Request-ID
//   - AccessLog: zap access log keyed by request id
//
// Example Usage:
//
//	router.Use(middleware.RequestID(), middleware.AccessLog(log))
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
