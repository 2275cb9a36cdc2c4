package driver

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/TerminAI/bridge/internal/domain/browser"
	"github.com/GriffinCanCode/TerminAI/bridge/internal/domain/browser/browsertest"
	"github.com/GriffinCanCode/TerminAI/bridge/internal/domain/site"
)

// pageSource hands out a single page, or fails with err.
type pageSource struct {
	page     *browsertest.Page
	err      error
	releases int
}

func (s *pageSource) Acquire(ctx context.Context) (browser.Page, func(), error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.page, func() { s.releases++ }, nil
}

type recorder struct {
	mu       sync.Mutex
	asks     []string
	switches []string
	hits     []string
}

func (r *recorder) RecordAsk(site, outcome string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.asks = append(r.asks, site+":"+outcome)
}

func (r *recorder) RecordSwitch(site, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.switches = append(r.switches, site+":"+result)
}

func (r *recorder) RecordSelectorHit(stage, selector string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hits = append(r.hits, stage+":"+selector)
}

func noDelays() Timings {
	return Timings{Strategy: StrategyFixed}
}

func newDriver(src PageSource, opts ...Option) *Driver {
	return New(src, site.NewDefault(), append([]Option{WithTimings(noDelays())}, opts...)...)
}

func TestAskHappyPath(t *testing.T) {
	page := browsertest.NewPage()
	first, last := browsertest.NewElement(""), browsertest.NewElement("")
	send := browsertest.NewElement("Send")
	page.Set("input[type='text']", first, last)
	page.Set("button[type='submit']", send)
	page.Set(".answer:last-child", browsertest.NewElement(" 42 "))

	rec := &recorder{}
	src := &pageSource{page: page}
	d := newDriver(src, WithRecorder(rec))

	answer, err := d.Ask(context.Background(), "deepseek", "hi", AskOptions{})
	require.NoError(t, err)

	assert.True(t, answer.Found)
	assert.Equal(t, "42", answer.Text)
	assert.Equal(t, "42", answer.String())
	assert.Equal(t, "deepseek", answer.Site)
	assert.Empty(t, answer.HTML)

	assert.Equal(t, []string{"https://chat.deepseek.com"}, page.Visits())
	assert.Equal(t, 0, first.Fills())
	assert.Equal(t, "hi", last.Value())
	assert.Equal(t, 1, send.Clicks())
	assert.Equal(t, 1, src.releases)

	assert.Equal(t, []string{"deepseek:answered"}, rec.asks)
	assert.Equal(t, []string{
		"input:input[type='text']",
		"submit:button[type='submit']",
		"answer:.answer:last-child",
	}, rec.hits)
}

func TestAskInputSelectorPriority(t *testing.T) {
	page := browsertest.NewPage()
	textarea := browsertest.NewElement("")
	editable := browsertest.NewElement("")
	page.Set("textarea", textarea)
	page.Set("[contenteditable='true']", editable)

	_, err := newDriver(&pageSource{page: page}).Ask(context.Background(), "qwen", "hello", AskOptions{})
	require.NoError(t, err)

	assert.Equal(t, "hello", textarea.Value())
	assert.Equal(t, 0, editable.Fills())
}

func TestAskSubmitClicksFirstMatch(t *testing.T) {
	page := browsertest.NewPage()
	page.Set("textarea", browsertest.NewElement(""))
	a, b := browsertest.NewElement("发送"), browsertest.NewElement("发送")
	later := browsertest.NewElement("")
	page.Set("button:has-text('发送')", a, b)
	page.Set(".send-button", later)

	_, err := newDriver(&pageSource{page: page}).Ask(context.Background(), "doubao", "hi", AskOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, a.Clicks())
	assert.Equal(t, 0, b.Clicks())
	assert.Equal(t, 0, later.Clicks())
}

func TestAskWithoutSubmitControl(t *testing.T) {
	page := browsertest.NewPage()
	page.Set("textarea", browsertest.NewElement(""))
	page.Set(".message:last-child", browsertest.NewElement("pong"))

	answer, err := newDriver(&pageSource{page: page}).Ask(context.Background(), "deepseek", "ping", AskOptions{})
	require.NoError(t, err)
	assert.Equal(t, "pong", answer.Text)
}

func TestAskAnswerNotFound(t *testing.T) {
	page := browsertest.NewPage()
	page.Set("textarea", browsertest.NewElement(""))
	page.Set(".message:last-child", browsertest.NewElement("   "))
	page.Set(".response:last-child", browsertest.NewElement("\n\t"))
	page.Set(".answer:last-child", browsertest.NewElement(""))
	page.Set("[data-testid='message-answer']:last-child", browsertest.NewElement(" "))

	rec := &recorder{}
	answer, err := newDriver(&pageSource{page: page}, WithRecorder(rec)).Ask(context.Background(), "deepseek", "hi", AskOptions{})
	require.NoError(t, err)

	assert.False(t, answer.Found)
	assert.Empty(t, answer.Text)
	assert.Equal(t, NotFoundText, answer.String())
	assert.Equal(t, []string{"deepseek:not_found"}, rec.asks)
}

func TestAskAnswerSkipsEmptyCandidates(t *testing.T) {
	page := browsertest.NewPage()
	page.Set("textarea", browsertest.NewElement(""))
	page.Set(".message:last-child", browsertest.NewElement(" "))
	page.Set("[data-testid='message-answer']:last-child", browsertest.NewElement("done"))

	answer, err := newDriver(&pageSource{page: page}).Ask(context.Background(), "deepseek", "hi", AskOptions{})
	require.NoError(t, err)
	assert.Equal(t, "done", answer.Text)
}

func TestAskHTML(t *testing.T) {
	page := browsertest.NewPage()
	page.Set("textarea", browsertest.NewElement(""))
	page.Set(".message:last-child", &browsertest.Element{
		Text: "Hello world",
		HTML: `<p>Hello <strong>world</strong></p><script>alert(1)</script>`,
	})

	answer, err := newDriver(&pageSource{page: page}).Ask(context.Background(), "deepseek", "hi", AskOptions{HTML: true})
	require.NoError(t, err)

	assert.Equal(t, "Hello world", answer.Text)
	assert.Equal(t, "<p>Hello <strong>world</strong></p>", answer.HTML)
}

func TestAskInputNotFound(t *testing.T) {
	page := browsertest.NewPage()
	page.Set("button[type='submit']", browsertest.NewElement(""))

	rec := &recorder{}
	_, err := newDriver(&pageSource{page: page}, WithRecorder(rec)).Ask(context.Background(), "deepseek", "hi", AskOptions{})
	require.Error(t, err)

	assert.ErrorIs(t, err, browser.ErrInputNotFound)
	assert.Equal(t, browser.KindInputNotFound, browser.KindOf(err))
	assert.Equal(t, "ask deepseek: could not find input element", err.Error())
	assert.Equal(t, []string{"deepseek:input_not_found"}, rec.asks)
	assert.NotContains(t, page.Queries(), "button[type='submit']")
}

func TestUnknownSiteNeverNavigates(t *testing.T) {
	for _, id := range []string{"gemini", "", "DEEPSEEK"} {
		t.Run(id, func(t *testing.T) {
			page := browsertest.NewPage()
			d := newDriver(&pageSource{page: page})

			_, err := d.Ask(context.Background(), id, "hi", AskOptions{})
			assert.ErrorIs(t, err, browser.ErrUnknownSite)

			err = d.SwitchSite(context.Background(), id)
			assert.ErrorIs(t, err, browser.ErrUnknownSite)

			assert.Empty(t, page.Visits())
			assert.Empty(t, page.Queries())
		})
	}
}

func TestNoActiveSession(t *testing.T) {
	src := &pageSource{err: browser.NoActiveSession("acquire")}
	d := newDriver(src)

	_, err := d.Ask(context.Background(), "deepseek", "x", AskOptions{})
	assert.ErrorIs(t, err, browser.ErrNoActiveSession)
	assert.Equal(t, browser.KindNoActiveSession, browser.KindOf(err))

	err = d.SwitchSite(context.Background(), "deepseek")
	assert.ErrorIs(t, err, browser.ErrNoActiveSession)
}

func TestAskTransportFailures(t *testing.T) {
	boom := errors.New("target closed")

	t.Run("navigation", func(t *testing.T) {
		page := browsertest.NewPage()
		page.GotoErr = boom
		_, err := newDriver(&pageSource{page: page}).Ask(context.Background(), "deepseek", "hi", AskOptions{})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, browser.KindTransport, browser.KindOf(err))
	})

	t.Run("query", func(t *testing.T) {
		page := browsertest.NewPage()
		page.QueryErr = boom
		_, err := newDriver(&pageSource{page: page}).Ask(context.Background(), "deepseek", "hi", AskOptions{})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, browser.KindTransport, browser.KindOf(err))
	})

	t.Run("fill", func(t *testing.T) {
		page := browsertest.NewPage()
		page.Set("textarea", &browsertest.Element{FillErr: boom})
		_, err := newDriver(&pageSource{page: page}).Ask(context.Background(), "deepseek", "hi", AskOptions{})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("click", func(t *testing.T) {
		page := browsertest.NewPage()
		page.Set("textarea", browsertest.NewElement(""))
		page.Set(".send-button", &browsertest.Element{ClickErr: boom})
		_, err := newDriver(&pageSource{page: page}).Ask(context.Background(), "deepseek", "hi", AskOptions{})
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), ".send-button")
	})
}

func TestSwitchSite(t *testing.T) {
	page := browsertest.NewPage()
	rec := &recorder{}
	src := &pageSource{page: page}
	d := newDriver(src, WithRecorder(rec))

	require.NoError(t, d.SwitchSite(context.Background(), "qwen"))
	require.NoError(t, d.SwitchSite(context.Background(), "doubao"))

	assert.Equal(t, []string{"https://qianwen.aliyun.com/chat", "https://www.doubao.com/chat"}, page.Visits())
	assert.Empty(t, page.Queries())
	assert.Equal(t, "https://www.doubao.com/chat", page.URL())
	assert.Equal(t, []string{"qwen:success", "doubao:success"}, rec.switches)
	assert.Equal(t, 2, src.releases)
}

func TestAskHonorsCancellation(t *testing.T) {
	page := browsertest.NewPage()
	page.Set("textarea", browsertest.NewElement(""))

	timings := noDelays()
	timings.Settle = time.Minute
	d := New(&pageSource{page: page}, site.NewDefault(), WithTimings(timings))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := d.Ask(ctx, "deepseek", "hi", AskOptions{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestAskPollStrategy(t *testing.T) {
	page := browsertest.NewPage()
	page.Set("textarea", browsertest.NewElement(""))
	page.Set(".message:last-child", browsertest.NewElement("stable"))

	timings := Timings{Response: time.Minute, PollInterval: time.Millisecond, Strategy: StrategyPoll}
	d := New(&pageSource{page: page}, site.NewDefault(), WithTimings(timings))

	start := time.Now()
	answer, err := d.Ask(context.Background(), "deepseek", "hi", AskOptions{})
	require.NoError(t, err)
	assert.Equal(t, "stable", answer.Text)
	assert.Less(t, time.Since(start), 5*time.Second)
}
