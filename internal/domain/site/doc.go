// Package site holds the registry of chat front-ends the bridge can drive.
//
// Each site has an id, a base URL and three ordered selector lists used by
// the interaction driver to find the composer, the send control and the
// rendered answer. The built-in sites are deepseek, qwen and doubao; a sites
// file (YAML, TOML or JSON) may override their fields or add new sites.
//
// The registry is immutable after construction.
package site
