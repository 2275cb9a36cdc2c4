// Package session manages the single connection to a remote browser.
//
// A Manager is either disconnected or connected with exactly one active
// page. Connect attaches over the DevTools endpoint and picks the page:
//  1. the first page of the first existing context
//  2. otherwise a new page in the first existing context
//  3. otherwise a new page in a freshly created context
//
// Failures during connect release everything acquired so far before the
// error is returned; connect never retries.
//
// Page access is serialized: Acquire hands the page to one caller at a
// time, so concurrent HTTP requests queue instead of racing on the tab.
//
// Example Usage:
//
//	mgr := session.NewManager(dialer, session.WithLogger(log))
//	if _, err := mgr.Connect(ctx, 9222); err != nil { ... }
//	page, release, err := mgr.Acquire(ctx)
//	defer release()
package session
