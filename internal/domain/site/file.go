package site

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// File is the on-disk shape of a sites file.
//
//	default: deepseek
//	sites:
//	  - id: kimi
//	    url: https://kimi.moonshot.cn
//	    answer: [".markdown:last-child"]
type File struct {
	Default string      `yaml:"default" toml:"default" json:"default"`
	Sites   []FileEntry `yaml:"sites" toml:"sites" json:"sites"`
}

// FileEntry overrides or adds one site. Empty fields keep the built-in value.
type FileEntry struct {
	ID     string   `yaml:"id" toml:"id" json:"id"`
	Name   string   `yaml:"name" toml:"name" json:"name"`
	URL    string   `yaml:"url" toml:"url" json:"url"`
	Input  []string `yaml:"input" toml:"input" json:"input"`
	Submit []string `yaml:"submit" toml:"submit" json:"submit"`
	Answer []string `yaml:"answer" toml:"answer" json:"answer"`
}

// LoadFile builds a registry from the built-in sites overlaid with path.
// The format follows the extension: .yaml/.yml, .toml or .json.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sites file: %w", err)
	}
	f, err := Parse(data, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, fmt.Errorf("failed to parse sites file %s: %w", path, err)
	}
	return f.Registry()
}

// Parse decodes a sites file in the given format.
func Parse(data []byte, format string) (*File, error) {
	var f File
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, err
		}
	case "toml":
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, err
		}
	case "json":
		if err := sonic.Unmarshal(data, &f); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported sites file format %q", format)
	}
	return &f, nil
}

// Registry merges the file over the built-in sites.
func (f *File) Registry() (*Registry, error) {
	sites := Defaults()
	index := make(map[string]int, len(sites))
	for i, s := range sites {
		index[s.ID] = i
	}

	for _, e := range f.Sites {
		id := strings.TrimSpace(e.ID)
		i, ok := index[id]
		if !ok {
			sites = append(sites, Site{ID: id})
			i = len(sites) - 1
			index[id] = i
		}
		sites[i] = e.apply(sites[i])
	}

	return New(sites, f.Default)
}

func (e FileEntry) apply(s Site) Site {
	if e.Name != "" {
		s.Name = e.Name
	}
	if e.URL != "" {
		s.URL = e.URL
	}
	if len(e.Input) > 0 {
		s.Selectors.Input = clone(e.Input)
	}
	if len(e.Submit) > 0 {
		s.Selectors.Submit = clone(e.Submit)
	}
	if len(e.Answer) > 0 {
		s.Selectors.Answer = clone(e.Answer)
	}
	return s
}
