package driver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/TerminAI/bridge/internal/domain/browser"
	"github.com/GriffinCanCode/TerminAI/bridge/internal/domain/site"
)

// NotFoundText is reported in place of an answer when no answer selector
// yields text. It is a successful outcome, not an error.
const NotFoundText = "No answer found - please check the website structure and selectors"

// Selector stages reported to the Recorder.
const (
	StageInput  = "input"
	StageSubmit = "submit"
	StageAnswer = "answer"
)

// Ask outcomes reported to the Recorder besides error kinds.
const (
	OutcomeAnswered = "answered"
	OutcomeNotFound = "not_found"
)

// PageSource hands out the active page under exclusive ownership.
type PageSource interface {
	Acquire(ctx context.Context) (browser.Page, func(), error)
}

// Recorder receives driver events for metrics.
type Recorder interface {
	RecordAsk(site, outcome string, d time.Duration)
	RecordSwitch(site, result string)
	RecordSelectorHit(stage, selector string)
}

// Answer is the result of Ask.
type Answer struct {
	Site  string `json:"site"`
	Text  string `json:"answer"`
	Found bool   `json:"found"`
	HTML  string `json:"html,omitempty"`
}

// String returns the answer text, or NotFoundText when nothing was found.
func (a Answer) String() string {
	if !a.Found {
		return NotFoundText
	}
	return a.Text
}

// AskOptions tunes a single Ask call.
type AskOptions struct {
	// HTML also returns the sanitized inner HTML of the answer element.
	HTML bool
}

// Driver runs the ask and switch flows against the page it acquires.
type Driver struct {
	pages    PageSource
	sites    *site.Registry
	timings  Timings
	recorder Recorder
	logger   *zap.Logger
	policy   *bluemonday.Policy
}

// Option configures a Driver.
type Option func(*Driver)

// WithTimings replaces DefaultTimings.
func WithTimings(t Timings) Option {
	return func(d *Driver) { d.timings = t }
}

// WithRecorder reports asks, switches and selector hits.
func WithRecorder(r Recorder) Option {
	return func(d *Driver) { d.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(d *Driver) { d.logger = l }
}

// New creates a driver that acquires pages from pages and resolves sites
// through sites.
func New(pages PageSource, sites *site.Registry, opts ...Option) *Driver {
	d := &Driver{
		pages:   pages,
		sites:   sites,
		timings: DefaultTimings(),
		logger:  zap.NewNop(),
		policy:  bluemonday.UGCPolicy(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Ask navigates to the site, types question into its composer, submits it
// and scrapes the reply. An answer that cannot be located is returned with
// Found set to false and no error.
func (d *Driver) Ask(ctx context.Context, siteID, question string, opts AskOptions) (Answer, error) {
	const op = "ask"
	start := time.Now()

	answer, err := d.ask(ctx, op, siteID, question, opts)

	outcome := OutcomeAnswered
	switch {
	case err != nil:
		outcome = browser.KindOf(err).String()
		d.logger.Warn("Ask failed", zap.String("site", siteID), zap.Error(err))
	case !answer.Found:
		outcome = OutcomeNotFound
		d.logger.Info("No answer found", zap.String("site", siteID), zap.Duration("duration", time.Since(start)))
	default:
		d.logger.Info("Answer received",
			zap.String("site", siteID),
			zap.Int("length", len(answer.Text)),
			zap.Duration("duration", time.Since(start)),
		)
	}
	if d.recorder != nil {
		d.recorder.RecordAsk(siteID, outcome, time.Since(start))
	}
	return answer, err
}

func (d *Driver) ask(ctx context.Context, op, siteID, question string, opts AskOptions) (Answer, error) {
	page, release, err := d.pages.Acquire(ctx)
	if err != nil {
		return Answer{}, annotate(err, op, siteID)
	}
	defer release()

	s, ok := d.sites.Resolve(siteID)
	if !ok {
		return Answer{}, browser.UnknownSite(op, siteID)
	}

	if err := d.navigate(ctx, op, page, s, d.timings.Settle); err != nil {
		return Answer{}, err
	}

	input, selector, err := d.findInput(page, s.Selectors.Input)
	if err != nil {
		return Answer{}, annotate(err, op, siteID)
	}
	if input == nil {
		return Answer{}, browser.NewError(browser.KindInputNotFound, op, nil).WithSite(siteID)
	}
	d.logger.Debug("Input located", zap.String("site", siteID), zap.String("selector", selector))
	if err := input.Fill(question); err != nil {
		return Answer{}, browser.Errorf(op, "fill input %s: %w", selector, err).WithSite(siteID)
	}
	if err := wait(ctx, d.timings.Input); err != nil {
		return Answer{}, annotate(err, op, siteID)
	}

	if err := d.submit(page, s.Selectors.Submit); err != nil {
		return Answer{}, annotate(err, op, siteID)
	}

	if err := d.awaitResponse(ctx, page, s.Selectors.Answer); err != nil {
		return Answer{}, annotate(err, op, siteID)
	}

	answer, err := d.extract(page, s.Selectors.Answer, opts.HTML)
	if err != nil {
		return Answer{}, annotate(err, op, siteID)
	}
	answer.Site = siteID
	return answer, nil
}

// SwitchSite navigates to the site without asking anything, leaving the page
// ready for the next Ask.
func (d *Driver) SwitchSite(ctx context.Context, siteID string) error {
	const op = "switch"

	err := d.switchSite(ctx, op, siteID)

	result := "success"
	if err != nil {
		result = browser.KindOf(err).String()
		d.logger.Warn("Switch failed", zap.String("site", siteID), zap.Error(err))
	} else {
		d.logger.Info("Switched site", zap.String("site", siteID))
	}
	if d.recorder != nil {
		d.recorder.RecordSwitch(siteID, result)
	}
	return err
}

func (d *Driver) switchSite(ctx context.Context, op, siteID string) error {
	page, release, err := d.pages.Acquire(ctx)
	if err != nil {
		return annotate(err, op, siteID)
	}
	defer release()

	s, ok := d.sites.Resolve(siteID)
	if !ok {
		return browser.UnknownSite(op, siteID)
	}
	return d.navigate(ctx, op, page, s, d.timings.Switch)
}

func (d *Driver) navigate(ctx context.Context, op string, page browser.Page, s site.Site, settle time.Duration) error {
	if err := page.Goto(s.URL); err != nil {
		return browser.Errorf(op, "navigate to %s: %w", s.URL, err).WithSite(s.ID)
	}
	if err := wait(ctx, settle); err != nil {
		return annotate(err, op, s.ID)
	}
	return nil
}

// findInput returns the last element matched by the first selector with any
// match. A nil element means no selector matched.
func (d *Driver) findInput(page browser.Page, selectors []string) (browser.Element, string, error) {
	for _, sel := range selectors {
		els, err := page.QueryAll(sel)
		if err != nil {
			return nil, sel, err
		}
		if len(els) > 0 {
			d.hit(StageInput, sel)
			return els[len(els)-1], sel, nil
		}
	}
	return nil, "", nil
}

// submit clicks the first element of the first matching selector. Finding
// nothing is not an error.
func (d *Driver) submit(page browser.Page, selectors []string) error {
	for _, sel := range selectors {
		button, err := page.Query(sel)
		if err != nil {
			return err
		}
		if button == nil {
			continue
		}
		d.hit(StageSubmit, sel)
		if err := button.Click(); err != nil {
			return fmt.Errorf("click %s: %w", sel, err)
		}
		return nil
	}
	d.logger.Debug("No submit control matched")
	return nil
}

func (d *Driver) awaitResponse(ctx context.Context, page browser.Page, selectors []string) error {
	if d.timings.Strategy != StrategyPoll {
		return wait(ctx, d.timings.Response)
	}
	return poll(ctx, d.timings.Response, d.timings.PollInterval, func() (string, error) {
		text, _, err := firstAnswer(page, selectors)
		return text, err
	})
}

func (d *Driver) extract(page browser.Page, selectors []string, withHTML bool) (Answer, error) {
	text, el, err := firstAnswer(page, selectors)
	if err != nil || el == nil {
		return Answer{}, err
	}
	answer := Answer{Text: text, Found: true}
	if withHTML {
		raw, err := el.element.InnerHTML()
		if err != nil {
			return Answer{}, err
		}
		answer.HTML = strings.TrimSpace(d.policy.Sanitize(raw))
	}
	d.hit(StageAnswer, el.selector)
	return answer, nil
}

type match struct {
	element  browser.Element
	selector string
}

// firstAnswer returns the trimmed text of the first answer selector whose
// first element has non-empty text.
func firstAnswer(page browser.Page, selectors []string) (string, *match, error) {
	for _, sel := range selectors {
		el, err := page.Query(sel)
		if err != nil {
			return "", nil, err
		}
		if el == nil {
			continue
		}
		text, err := el.TextContent()
		if err != nil {
			return "", nil, err
		}
		if text = strings.TrimSpace(text); text != "" {
			return text, &match{element: el, selector: sel}, nil
		}
	}
	return "", nil, nil
}

func (d *Driver) hit(stage, selector string) {
	if d.recorder != nil {
		d.recorder.RecordSelectorHit(stage, selector)
	}
}

// annotate wraps err as a browser error carrying op and site, keeping an
// existing kind.
func annotate(err error, op, siteID string) error {
	var be *browser.Error
	if errors.As(err, &be) {
		if be.Site == "" {
			return be.WithSite(siteID)
		}
		return be
	}
	return browser.NewError(browser.KindTransport, op, err).WithSite(siteID)
}
