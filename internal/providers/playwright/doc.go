// Package playwright implements the browser contracts with playwright-go,
// attaching to an already running Chromium over the DevTools protocol.
//
// Each Dial starts its own playwright driver process, which is stopped when
// the returned Browser is closed. Selectors are Playwright selectors, so
// engine extensions such as :has-text() work in site profiles.
package playwright
