package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type Language struct {
	Name      string   `toml:"name"`
	FileTypes []string `toml:"file-types"`
}

type Languages struct {
	Languages []Language `toml:"language"`
}

func (l Languages) Match(path string) *Language {
	base := filepath.Base(path)
	baseLower := strings.ToLower(base)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	for i := range l.Languages {
		lang := &l.Languages[i]
		for _, ft := range lang.FileTypes {
			ftLower := strings.ToLower(ft)
			if ftLower == ext || ftLower == baseLower {
				return lang
			}
			if strings.HasPrefix(ftLower, ".") && strings.TrimPrefix(ftLower, ".") == ext {
				return lang
			}
		}
	}
	return nil
}

// DefaultLanguages covers the grammars the editor ships with. A user
// languages.toml extends or overrides these mappings.
func DefaultLanguages() Languages {
	return Languages{
		Languages: []Language{
			{Name: "go", FileTypes: []string{"go"}},
			{Name: "rust", FileTypes: []string{"rs"}},
			{Name: "python", FileTypes: []string{"py", "pyw"}},
			{Name: "c", FileTypes: []string{"c", "h", "cpp", "hpp", "cc"}},
			{Name: "javascript", FileTypes: []string{"js", "mjs", "ts", "tsx", "jsx"}},
			{Name: "json", FileTypes: []string{"json", "jsonc"}},
			{Name: "toml", FileTypes: []string{"toml"}},
			{Name: "yaml", FileTypes: []string{"yaml", "yml"}},
			{Name: "shell", FileTypes: []string{"sh", "bash", "zsh", ".bashrc", ".zshrc"}},
			{Name: "markdown", FileTypes: []string{"md", "markdown"}},
		},
	}
}

func LoadLanguages() (Languages, error) {
	path, err := LanguagesPath()
	if err != nil {
		return DefaultLanguages(), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultLanguages(), nil
		}
		return DefaultLanguages(), err
	}

	var cfg Languages
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return DefaultLanguages(), err
	}
	// User entries take precedence; defaults fill in the rest.
	defaults := DefaultLanguages()
	seen := make(map[string]bool, len(cfg.Languages))
	for _, lang := range cfg.Languages {
		seen[strings.ToLower(lang.Name)] = true
	}
	for _, lang := range defaults.Languages {
		if !seen[lang.Name] {
			cfg.Languages = append(cfg.Languages, lang)
		}
	}
	return cfg, nil
}

func LanguagesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "languages.toml"), nil
}
