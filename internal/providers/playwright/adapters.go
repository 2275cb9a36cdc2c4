package playwright

import (
	"errors"
	"time"

	pw "github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/TerminAI/bridge/internal/domain/browser"
)

type remoteBrowser struct {
	runtime    *pw.Playwright
	browser    pw.Browser
	navTimeout time.Duration
	logger     *zap.Logger
}

func (b *remoteBrowser) Contexts() []browser.Context {
	contexts := b.browser.Contexts()
	out := make([]browser.Context, 0, len(contexts))
	for _, c := range contexts {
		out = append(out, &remoteContext{context: c, navTimeout: b.navTimeout})
	}
	return out
}

func (b *remoteBrowser) NewContext() (browser.Context, error) {
	c, err := b.browser.NewContext()
	if err != nil {
		return nil, err
	}
	return &remoteContext{context: c, navTimeout: b.navTimeout}, nil
}

func (b *remoteBrowser) IsConnected() bool {
	return b.browser.IsConnected()
}

func (b *remoteBrowser) Version() string {
	return b.browser.Version()
}

// Close disconnects from the browser and stops the driver. The remote
// browser process keeps running; only this client goes away.
func (b *remoteBrowser) Close() error {
	closeErr := b.browser.Close()
	stopErr := b.runtime.Stop()
	if stopErr != nil {
		b.logger.Debug("Playwright stop failed", zap.Error(stopErr))
	}
	return errors.Join(closeErr, stopErr)
}

type remoteContext struct {
	context    pw.BrowserContext
	navTimeout time.Duration
}

func (c *remoteContext) Pages() []browser.Page {
	pages := c.context.Pages()
	out := make([]browser.Page, 0, len(pages))
	for _, p := range pages {
		out = append(out, &remotePage{page: p, navTimeout: c.navTimeout})
	}
	return out
}

func (c *remoteContext) NewPage() (browser.Page, error) {
	p, err := c.context.NewPage()
	if err != nil {
		return nil, err
	}
	return &remotePage{page: p, navTimeout: c.navTimeout}, nil
}

type remotePage struct {
	page       pw.Page
	navTimeout time.Duration
}

func (p *remotePage) Goto(url string) error {
	opts := pw.PageGotoOptions{WaitUntil: pw.WaitUntilStateDomcontentloaded}
	if p.navTimeout > 0 {
		opts.Timeout = pw.Float(float64(p.navTimeout.Milliseconds()))
	}
	_, err := p.page.Goto(url, opts)
	return err
}

func (p *remotePage) URL() string {
	return p.page.URL()
}

func (p *remotePage) QueryAll(selector string) ([]browser.Element, error) {
	handles, err := p.page.QuerySelectorAll(selector)
	if err != nil {
		return nil, err
	}
	out := make([]browser.Element, 0, len(handles))
	for _, h := range handles {
		out = append(out, remoteElement{handle: h})
	}
	return out, nil
}

// Query returns a nil Element, not a wrapped nil handle, when nothing matches.
func (p *remotePage) Query(selector string) (browser.Element, error) {
	h, err := p.page.QuerySelector(selector)
	if err != nil || h == nil {
		return nil, err
	}
	return remoteElement{handle: h}, nil
}

type remoteElement struct {
	handle pw.ElementHandle
}

func (e remoteElement) Fill(text string) error {
	return e.handle.Fill(text)
}

func (e remoteElement) Click() error {
	return e.handle.Click()
}

func (e remoteElement) TextContent() (string, error) {
	return e.handle.TextContent()
}

func (e remoteElement) InnerHTML() (string, error) {
	return e.handle.InnerHTML()
}
