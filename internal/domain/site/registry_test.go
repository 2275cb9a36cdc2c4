package site

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r := NewDefault()

	assert.ElementsMatch(t, []string{"deepseek", "qwen", "doubao"}, r.IDs())
	assert.Equal(t, "deepseek", r.DefaultID())

	urls := map[string]string{
		"deepseek": "https://chat.deepseek.com",
		"qwen":     "https://qianwen.aliyun.com/chat",
		"doubao":   "https://www.doubao.com/chat",
	}
	for id, want := range urls {
		got, ok := r.URL(id)
		require.True(t, ok, id)
		assert.Equal(t, want, got)
	}
}

func TestDefaultSelectorOrder(t *testing.T) {
	s, ok := NewDefault().Resolve("deepseek")
	require.True(t, ok)

	assert.Equal(t, []string{"textarea", "input[type='text']", "[contenteditable='true']", ".chat-input", "#prompt-textarea"}, s.Selectors.Input)
	assert.Equal(t, "button[type='submit']", s.Selectors.Submit[0])
	assert.Equal(t, "[data-testid='send-button']", s.Selectors.Submit[4])
	assert.Equal(t, ".answer:last-child", s.Selectors.Answer[2])
}

func TestResolveUnknown(t *testing.T) {
	r := NewDefault()

	for _, id := range []string{"", "gemini", "DeepSeek", " deepseek"} {
		_, ok := r.Resolve(id)
		assert.False(t, ok, id)
		_, ok = r.URL(id)
		assert.False(t, ok, id)
	}
}

func TestRegistryIsReadOnly(t *testing.T) {
	r := NewDefault()

	s, _ := r.Resolve("qwen")
	s.Selectors.Input[0] = "mutated"
	s.URL = "https://example.com"

	again, _ := r.Resolve("qwen")
	assert.Equal(t, "textarea", again.Selectors.Input[0])
	assert.Equal(t, "https://qianwen.aliyun.com/chat", again.URL)

	ids := r.IDs()
	ids[0] = "mutated"
	assert.Equal(t, "deepseek", r.IDs()[0])
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name      string
		sites     []Site
		defaultID string
		wantErr   string
	}{
		{"missing id", []Site{{URL: "https://a.example"}}, "", "site id is required"},
		{"bad id", []Site{{ID: "a b", URL: "https://a.example"}}, "", "invalid characters"},
		{"duplicate", []Site{{ID: "a", URL: "https://a.example"}, {ID: "a", URL: "https://b.example"}}, "a", "duplicate"},
		{"bad scheme", []Site{{ID: "a", URL: "ftp://a.example"}}, "a", "http or https"},
		{"no host", []Site{{ID: "a", URL: "https://"}}, "a", "no host"},
		{"unknown default", []Site{{ID: "a", URL: "https://a.example"}}, "b", "not registered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.sites, tt.defaultID)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewFillsDefaults(t *testing.T) {
	r, err := New([]Site{{ID: "a", URL: "https://a.example"}}, "a")
	require.NoError(t, err)

	s, ok := r.Resolve("a")
	require.True(t, ok)
	assert.Equal(t, "a", s.Name)
	assert.Equal(t, DefaultInputSelectors, s.Selectors.Input)
	assert.Equal(t, DefaultAnswerSelectors, s.Selectors.Answer)
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		format string
		data   string
	}{
		{"yaml", "default: kimi\nsites:\n  - id: kimi\n    url: https://kimi.moonshot.cn\n    answer: [\".markdown:last-child\"]\n  - id: qwen\n    input: [\"#chat-input\"]\n"},
		{"toml", "default = \"kimi\"\n[[sites]]\nid = \"kimi\"\nurl = \"https://kimi.moonshot.cn\"\nanswer = [\".markdown:last-child\"]\n[[sites]]\nid = \"qwen\"\ninput = [\"#chat-input\"]\n"},
		{"json", `{"default":"kimi","sites":[{"id":"kimi","url":"https://kimi.moonshot.cn","answer":[".markdown:last-child"]},{"id":"qwen","input":["#chat-input"]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			f, err := Parse([]byte(tt.data), tt.format)
			require.NoError(t, err)

			r, err := f.Registry()
			require.NoError(t, err)

			assert.Equal(t, []string{"deepseek", "qwen", "doubao", "kimi"}, r.IDs())
			assert.Equal(t, "kimi", r.DefaultID())

			kimi, _ := r.Resolve("kimi")
			assert.Equal(t, []string{".markdown:last-child"}, kimi.Selectors.Answer)
			assert.Equal(t, DefaultInputSelectors, kimi.Selectors.Input)

			qwen, _ := r.Resolve("qwen")
			assert.Equal(t, "https://qianwen.aliyun.com/chat", qwen.URL)
			assert.Equal(t, []string{"#chat-input"}, qwen.Selectors.Input)
			assert.Equal(t, DefaultSubmitSelectors, qwen.Selectors.Submit)
		})
	}
}

func TestParseUnsupportedFormat(t *testing.T) {
	_, err := Parse([]byte("x"), "ini")
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sites.yml")
	require.NoError(t, os.WriteFile(path, []byte("sites:\n  - id: doubao\n    url: https://www.doubao.com/chat/new\n"), 0o644))

	r, err := LoadFile(path)
	require.NoError(t, err)

	url, ok := r.URL("doubao")
	require.True(t, ok)
	assert.Equal(t, "https://www.doubao.com/chat/new", url)
	assert.Equal(t, DefaultID, r.DefaultID())

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
