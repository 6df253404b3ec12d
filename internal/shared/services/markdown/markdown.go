// Package markdown turns notification bodies into email-safe HTML.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

type Renderer interface {
	// ToHTML converts markdown and strips anything an email client should not run.
	ToHTML(markdown string) (string, error)
	// ToText drops all markup, for the plain-text alternative part.
	ToText(markdown string) (string, error)
}

type renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	strict *bluemonday.Policy
}

func NewRenderer() Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	return &renderer{
		md:     md,
		policy: bluemonday.UGCPolicy(),
		strict: bluemonday.StrictPolicy(),
	}
}

func (r *renderer) convert(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}
	return buf.String(), nil
}

func (r *renderer) ToHTML(markdown string) (string, error) {
	out, err := r.convert(markdown)
	if err != nil {
		return "", err
	}
	return r.policy.Sanitize(out), nil
}

func (r *renderer) ToText(markdown string) (string, error) {
	out, err := r.convert(markdown)
	if err != nil {
		return "", err
	}
	return r.strict.Sanitize(out), nil
}
