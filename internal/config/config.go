package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type EditorOptions struct {
	TabWidth    int    `toml:"tab-width"`
	LineNumbers string `toml:"line-numbers"`
}

// HighlightOptions tunes the incremental highlight engine. Zero values
// fall back to the defaults from Default().
type HighlightOptions struct {
	Enabled            bool     `toml:"enabled"`
	Theme              string   `toml:"theme"`
	Themes             []string `toml:"themes"`
	CheckpointInterval int      `toml:"checkpoint-interval"`
	LargeFileThreshold int      `toml:"large-file-threshold"`
	ChunkSize          int      `toml:"chunk-size"`
	DebounceMS         int      `toml:"debounce-ms"`
	MaxStyleTags       int      `toml:"max-style-tags"`
}

type Config struct {
	Editor    EditorOptions    `toml:"editor"`
	Highlight HighlightOptions `toml:"highlight"`
}

func Default() Config {
	return Config{
		Editor: EditorOptions{
			TabWidth:    4,
			LineNumbers: "absolute",
		},
		Highlight: HighlightOptions{
			Enabled:            true,
			Theme:              "monokai",
			Themes:             []string{"monokai", "dracula", "github-dark", "solarized-light"},
			CheckpointInterval: 128,
			LargeFileThreshold: 5000,
			ChunkSize:          2000,
			DebounceMS:         50,
			MaxStyleTags:       26,
		},
	}
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, err
	}

	if userCfg.Editor.TabWidth > 0 {
		cfg.Editor.TabWidth = userCfg.Editor.TabWidth
	}
	if userCfg.Editor.LineNumbers != "" {
		cfg.Editor.LineNumbers = userCfg.Editor.LineNumbers
	}
	if userCfg.Highlight.Theme != "" {
		cfg.Highlight.Theme = userCfg.Highlight.Theme
	}
	if len(userCfg.Highlight.Themes) > 0 {
		cfg.Highlight.Themes = userCfg.Highlight.Themes
	}
	if userCfg.Highlight.CheckpointInterval > 0 {
		cfg.Highlight.CheckpointInterval = userCfg.Highlight.CheckpointInterval
	}
	if userCfg.Highlight.LargeFileThreshold > 0 {
		cfg.Highlight.LargeFileThreshold = userCfg.Highlight.LargeFileThreshold
	}
	if userCfg.Highlight.ChunkSize > 0 {
		cfg.Highlight.ChunkSize = userCfg.Highlight.ChunkSize
	}
	if userCfg.Highlight.DebounceMS > 0 {
		cfg.Highlight.DebounceMS = userCfg.Highlight.DebounceMS
	}
	if userCfg.Highlight.MaxStyleTags > 0 {
		cfg.Highlight.MaxStyleTags = userCfg.Highlight.MaxStyleTags
	}
	// "enabled" defaults to true, so only an explicit false in the file
	// can turn highlighting off. toml has no way to distinguish a missing
	// bool from false after decoding into a zero struct, so decode again
	// into a probe map.
	var probe map[string]map[string]interface{}
	if _, err := toml.Decode(string(data), &probe); err == nil {
		if hl, ok := probe["highlight"]; ok {
			if v, ok := hl["enabled"].(bool); ok {
				cfg.Highlight.Enabled = v
			}
		}
	}

	return cfg, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("FERRISPAD_CONFIG_HOME"); v != "" {
		return filepath.Join(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "ferrispad"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ferrispad"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
