package site

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/GriffinCanCode/TerminAI/bridge/internal/shared/utils"
)

// DefaultID is the site shown as default when a sites file does not name one.
const DefaultID = "deepseek"

// Default candidate selectors, in priority order. The first selector that
// matches wins, so extend these lists rather than reorder them.
var (
	DefaultInputSelectors = []string{
		"textarea",
		"input[type='text']",
		"[contenteditable='true']",
		".chat-input",
		"#prompt-textarea",
	}
	DefaultSubmitSelectors = []string{
		"button[type='submit']",
		"button:has-text('发送')",
		"button:has-text('Send')",
		".send-button",
		"[data-testid='send-button']",
	}
	DefaultAnswerSelectors = []string{
		".message:last-child",
		".response:last-child",
		".answer:last-child",
		"[data-testid='message-answer']:last-child",
	}
)

// Selectors holds the ordered candidate lists used to find page elements.
type Selectors struct {
	Input  []string `json:"input"`
	Submit []string `json:"submit"`
	Answer []string `json:"answer"`
}

// DefaultSelectors returns a fresh copy of the default selector lists.
func DefaultSelectors() Selectors {
	return Selectors{
		Input:  clone(DefaultInputSelectors),
		Submit: clone(DefaultSubmitSelectors),
		Answer: clone(DefaultAnswerSelectors),
	}
}

func (s Selectors) clone() Selectors {
	return Selectors{Input: clone(s.Input), Submit: clone(s.Submit), Answer: clone(s.Answer)}
}

// Site is a chat front-end the driver knows how to talk to.
type Site struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Selectors Selectors `json:"selectors"`
}

// Defaults returns the built-in sites.
func Defaults() []Site {
	return []Site{
		{ID: "deepseek", Name: "DeepSeek", URL: "https://chat.deepseek.com", Selectors: DefaultSelectors()},
		{ID: "qwen", Name: "Qwen", URL: "https://qianwen.aliyun.com/chat", Selectors: DefaultSelectors()},
		{ID: "doubao", Name: "Doubao", URL: "https://www.doubao.com/chat", Selectors: DefaultSelectors()},
	}
}

// Registry maps site ids to sites. It is read-only once constructed and
// safe for concurrent use.
type Registry struct {
	sites     map[string]Site
	order     []string
	defaultID string
}

// NewDefault returns a registry holding only the built-in sites.
func NewDefault() *Registry {
	r, err := New(Defaults(), DefaultID)
	if err != nil {
		// Built-in data is static; failing here is a programming error.
		panic(err)
	}
	return r
}

// New validates sites and builds a registry. Sites keep their given order.
func New(sites []Site, defaultID string) (*Registry, error) {
	r := &Registry{
		sites:     make(map[string]Site, len(sites)),
		order:     make([]string, 0, len(sites)),
		defaultID: defaultID,
	}

	for _, s := range sites {
		s.ID = strings.TrimSpace(s.ID)
		if err := utils.ValidateSiteID(s.ID, "site id", true); err != nil {
			return nil, err
		}
		if _, dup := r.sites[s.ID]; dup {
			return nil, fmt.Errorf("duplicate site id %q", s.ID)
		}
		if err := validateURL(s.URL); err != nil {
			return nil, fmt.Errorf("site %q: %w", s.ID, err)
		}
		if s.Name == "" {
			s.Name = s.ID
		}
		s.Selectors = s.Selectors.clone()
		if len(s.Selectors.Input) == 0 {
			s.Selectors.Input = clone(DefaultInputSelectors)
		}
		if len(s.Selectors.Submit) == 0 {
			s.Selectors.Submit = clone(DefaultSubmitSelectors)
		}
		if len(s.Selectors.Answer) == 0 {
			s.Selectors.Answer = clone(DefaultAnswerSelectors)
		}
		r.sites[s.ID] = s
		r.order = append(r.order, s.ID)
	}

	if r.defaultID == "" {
		r.defaultID = DefaultID
	}
	if _, ok := r.sites[r.defaultID]; !ok {
		return nil, fmt.Errorf("default site %q is not registered", r.defaultID)
	}
	return r, nil
}

// Resolve returns the site registered under id.
func (r *Registry) Resolve(id string) (Site, bool) {
	s, ok := r.sites[id]
	if !ok {
		return Site{}, false
	}
	s.Selectors = s.Selectors.clone()
	return s, true
}

// URL returns the base URL registered under id.
func (r *Registry) URL(id string) (string, bool) {
	s, ok := r.sites[id]
	return s.URL, ok
}

// IDs returns the registered ids in registration order.
func (r *Registry) IDs() []string {
	return clone(r.order)
}

// Sites returns every site in registration order.
func (r *Registry) Sites() []Site {
	out := make([]Site, 0, len(r.order))
	for _, id := range r.order {
		s, _ := r.Resolve(id)
		out = append(out, s)
	}
	return out
}

// DefaultID returns the id presented as default to clients.
func (r *Registry) DefaultID() string {
	return r.defaultID
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url %q must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("url %q has no host", raw)
	}
	return nil
}

func clone(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
