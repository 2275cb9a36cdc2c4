// Package browser defines the contracts the bridge needs from a remote
// browser and the error taxonomy shared by the session manager and the
// interaction driver.
//
// The interfaces are deliberately narrow: connect to a debugging endpoint,
// pick or open a page, navigate, query elements, fill, click and read text.
// The production implementation lives in providers/playwright; tests use the
// in-memory fakes from browsertest.
//
// Error kinds:
//   - KindConnection: the remote browser is unreachable or incompatible
//   - KindNoActiveSession: an operation ran before connect (client error)
//   - KindUnknownSite: the site id is not in the registry (client error)
//   - KindInputNotFound: no input selector matched, the site layout drifted
//   - KindTransport: any other page or protocol failure
package browser
