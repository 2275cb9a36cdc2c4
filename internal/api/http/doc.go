// Package http provides the HTTP handlers of the bridge.
//
// Endpoints:
//   - GET  /        service identity
//   - GET  /health  liveness plus browser connection state
//   - POST /init    connect to the browser (debug_port)
//   - POST /ask     ask a site a question (ai, question, format)
//   - GET  /ais     registered sites and the default
//   - POST /switch  navigate to a site (ai)
//   - GET  /session details of the connected session
//   - POST /close   disconnect from the browser
//
// Parameters are read from the query string or from a JSON body. Failures
// answer {"detail": ..., "error": <kind>}; a missing session is a 400 with
// detail "Browser not connected".
package http
