// Package browsertest provides in-memory implementations of the browser
// contracts for tests.
package browsertest

import (
	"context"
	"errors"
	"sync"

	"github.com/GriffinCanCode/TerminAI/bridge/internal/domain/browser"
)

// ErrClosed is returned by page calls after the owning browser was closed.
var ErrClosed = errors.New("target page, context or browser has been closed")

// Element is a fake DOM node.
type Element struct {
	Text     string
	HTML     string
	FillErr  error
	ClickErr error

	mu     sync.Mutex
	value  string
	fills  int
	clicks int
}

// NewElement returns an element with the given text content.
func NewElement(text string) *Element {
	return &Element{Text: text}
}

func (e *Element) Fill(text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.FillErr != nil {
		return e.FillErr
	}
	e.value = text
	e.fills++
	return nil
}

func (e *Element) Click() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ClickErr != nil {
		return e.ClickErr
	}
	e.clicks++
	return nil
}

func (e *Element) TextContent() (string, error) {
	return e.Text, nil
}

func (e *Element) InnerHTML() (string, error) {
	if e.HTML == "" {
		return e.Text, nil
	}
	return e.HTML, nil
}

// Value returns the last text filled into the element.
func (e *Element) Value() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value
}

// Fills returns how many times Fill succeeded.
func (e *Element) Fills() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fills
}

// Clicks returns how many times Click succeeded.
func (e *Element) Clicks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clicks
}

// Page is a fake tab whose DOM is a selector → elements table.
type Page struct {
	GotoErr  error
	QueryErr error

	mu        sync.Mutex
	url       string
	selectors map[string][]*Element
	visits    []string
	queries   []string
	closed    bool
}

// NewPage returns an empty page at about:blank.
func NewPage() *Page {
	return &Page{url: "about:blank", selectors: make(map[string][]*Element)}
}

// Set makes selector match els, in document order.
func (p *Page) Set(selector string, els ...*Element) *Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selectors[selector] = els
	return p
}

func (p *Page) Goto(url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	if p.GotoErr != nil {
		return p.GotoErr
	}
	p.visits = append(p.visits, url)
	p.url = url
	return nil
}

func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *Page) QueryAll(selector string) ([]browser.Element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrClosed
	}
	if p.QueryErr != nil {
		return nil, p.QueryErr
	}
	p.queries = append(p.queries, selector)
	matches := p.selectors[selector]
	out := make([]browser.Element, 0, len(matches))
	for _, el := range matches {
		out = append(out, el)
	}
	return out, nil
}

func (p *Page) Query(selector string) (browser.Element, error) {
	all, err := p.QueryAll(selector)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

// Visits returns every URL passed to Goto.
func (p *Page) Visits() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.visits...)
}

// Queries returns every selector queried, in order.
func (p *Page) Queries() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.queries...)
}

func (p *Page) close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}

// Context is a fake browsing context.
type Context struct {
	NewPageErr error

	mu      sync.Mutex
	pages   []*Page
	created int
}

// NewContext returns a context holding pages.
func NewContext(pages ...*Page) *Context {
	return &Context{pages: pages}
}

func (c *Context) Pages() []browser.Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]browser.Page, 0, len(c.pages))
	for _, p := range c.pages {
		out = append(out, p)
	}
	return out
}

func (c *Context) NewPage() (browser.Page, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.NewPageErr != nil {
		return nil, c.NewPageErr
	}
	p := NewPage()
	c.pages = append(c.pages, p)
	c.created++
	return p, nil
}

// Created returns how many pages NewPage opened.
func (c *Context) Created() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.created
}

// Browser is a fake remote browser connection.
type Browser struct {
	NewContextErr error
	CloseErr      error
	BrowserVer    string

	mu        sync.Mutex
	contexts  []*Context
	connected bool
	closes    int
	created   int
}

// NewBrowser returns a connected browser with the given contexts.
func NewBrowser(contexts ...*Context) *Browser {
	return &Browser{contexts: contexts, connected: true, BrowserVer: "HeadlessChrome/124.0.0.0"}
}

func (b *Browser) Contexts() []browser.Context {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]browser.Context, 0, len(b.contexts))
	for _, c := range b.contexts {
		out = append(out, c)
	}
	return out
}

func (b *Browser) NewContext() (browser.Context, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.NewContextErr != nil {
		return nil, b.NewContextErr
	}
	c := NewContext()
	b.contexts = append(b.contexts, c)
	b.created++
	return c, nil
}

func (b *Browser) IsConnected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.connected
}

func (b *Browser) Version() string {
	return b.BrowserVer
}

func (b *Browser) Close() error {
	b.mu.Lock()
	b.closes++
	b.connected = false
	contexts := append([]*Context(nil), b.contexts...)
	closeErr := b.CloseErr
	b.mu.Unlock()

	for _, c := range contexts {
		c.mu.Lock()
		for _, p := range c.pages {
			p.close()
		}
		c.mu.Unlock()
	}
	return closeErr
}

// Drop simulates the transport going away without Close being called.
func (b *Browser) Drop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.connected = false
}

// Closes returns how many times Close was called.
func (b *Browser) Closes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closes
}

// CreatedContexts returns how many contexts NewContext opened.
func (b *Browser) CreatedContexts() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.created
}

// Dialer hands out a prepared Browser, or fails with Err.
type Dialer struct {
	Browser *Browser
	Err     error

	mu        sync.Mutex
	endpoints []string
}

// NewDialer returns a dialer that always yields b.
func NewDialer(b *Browser) *Dialer {
	return &Dialer{Browser: b}
}

func (d *Dialer) Dial(ctx context.Context, endpoint string) (browser.Browser, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.endpoints = append(d.endpoints, endpoint)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d.Err != nil {
		return nil, d.Err
	}
	return d.Browser, nil
}

// Endpoints returns every endpoint dialed.
func (d *Dialer) Endpoints() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.endpoints...)
}
