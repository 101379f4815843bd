// Package prompts holds the prompt templates sent to the model.
//
// Each template is a markdown file with YAML front matter:
//
//	---
//	name: summarize
//	system: You are a helpful assistant that summarizes text.
//	temperature: 0.3
//	---
//	Please summarize the following text:
//
//	{{.Text}}
//
// The body is a text/template. Templates ship embedded in the binary; a file
// with the same name in the override directory replaces the embedded one.
package prompts

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/sant0-9/gptkit/internal/llm"
)

//go:embed templates/*.md
var embedded embed.FS

// Names of the shipped templates.
const (
	ProductSearch     = "product_search"
	Summarize         = "summarize"
	Analyze           = "analyze"
	ReportName        = "report_name"
	ReportDescription = "report_description"
)

// Metadata is the front matter of a template.
type Metadata struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	System      string   `yaml:"system"`
	Temperature *float32 `yaml:"temperature"`
	MaxTokens   int      `yaml:"max_tokens"`
}

// Template is a parsed prompt.
type Template struct {
	Metadata
	Body   string
	Source string // "embedded" or the override path

	tmpl *template.Template
}

// Library resolves templates, preferring files in dir over embedded ones.
type Library struct {
	dir string
}

// NewLibrary returns a library with overrides read from dir. An empty dir disables overrides.
func NewLibrary(dir string) *Library {
	return &Library{dir: dir}
}

// Get loads the template called name.
func (l *Library) Get(name string) (*Template, error) {
	if l.dir != "" {
		path := filepath.Join(l.dir, name+".md")
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			log.Debug().Str("prompt", name).Str("path", path).Msg("using prompt override")
			return Parse(name, data, path)
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("reading prompt override %s: %w", path, err)
		}
	}

	data, err := embedded.ReadFile("templates/" + name + ".md")
	if err != nil {
		return nil, fmt.Errorf("unknown prompt %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return Parse(name, data, "embedded")
}

// Names lists the embedded templates.
func Names() []string {
	entries, _ := embedded.ReadDir("templates")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".md"))
	}
	return names
}

// Parse reads front matter and body from content.
func Parse(name string, content []byte, source string) (*Template, error) {
	text := strings.ReplaceAll(string(content), "\r\n", "\n")

	var meta Metadata
	body := text
	if strings.HasPrefix(text, "---\n") {
		rest := text[len("---\n"):]
		end := strings.Index(rest, "\n---")
		if end < 0 {
			return nil, fmt.Errorf("prompt %s: unterminated front matter", source)
		}
		if err := yaml.Unmarshal([]byte(rest[:end]), &meta); err != nil {
			return nil, fmt.Errorf("prompt %s: front matter: %w", source, err)
		}
		body = rest[end+len("\n---"):]
	}
	if meta.Temperature != nil && (*meta.Temperature <= 0 || *meta.Temperature > 2) {
		return nil, fmt.Errorf("prompt %s: temperature must be above 0 and at most 2", source)
	}
	if meta.Name == "" {
		meta.Name = name
	}
	body = strings.TrimSpace(body)

	tmpl, err := template.New(meta.Name).Option("missingkey=error").Parse(body)
	if err != nil {
		return nil, fmt.Errorf("prompt %s: %w", source, err)
	}

	return &Template{Metadata: meta, Body: body, Source: source, tmpl: tmpl}, nil
}

// Render executes the body with data.
func (t *Template) Render(data any) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering prompt %s: %w", t.Name, err)
	}
	return buf.String(), nil
}

// Request renders the template into a system + user completion request,
// applying the template's temperature and token limit when it sets them.
func (t *Template) Request(model string, data any) (*llm.CompletionRequest, error) {
	user, err := t.Render(data)
	if err != nil {
		return nil, err
	}

	req := llm.NewRequest(model, strings.TrimSpace(t.System), user)
	if t.Temperature != nil {
		req.Temperature = *t.Temperature
	}
	if t.MaxTokens > 0 {
		req.MaxTokens = t.MaxTokens
	}
	return req, nil
}
