package browser

import "context"

// Dialer attaches to a running browser over its debugging endpoint.
type Dialer interface {
	Dial(ctx context.Context, endpoint string) (Browser, error)
}

// Browser is a live connection to a remote browser process.
type Browser interface {
	Contexts() []Context
	NewContext() (Context, error)
	IsConnected() bool
	Version() string
	// Close releases the connection. The remote process keeps running.
	Close() error
}

// Context is an isolated browsing context holding pages.
type Context interface {
	Pages() []Page
	NewPage() (Page, error)
}

// Page is a single tab the driver interacts with.
type Page interface {
	Goto(url string) error
	URL() string
	// QueryAll returns every element matching selector in document order.
	QueryAll(selector string) ([]Element, error)
	// Query returns the first element matching selector, or nil when nothing matches.
	Query(selector string) (Element, error)
}

// Element is a handle to a DOM node on a Page.
type Element interface {
	Fill(text string) error
	Click() error
	TextContent() (string, error)
	InnerHTML() (string, error)
}
