package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// RichText turns requester or staff supplied text into safe HTML.
type RichText struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewRichText builds the markdown pipeline.
func NewRichText() *RichText {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Strikethrough,
			extension.Linkify,
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	return &RichText{md: md, policy: bluemonday.UGCPolicy()}
}

// Render converts markdown to sanitized HTML.
func (r *RichText) Render(text string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())), nil
}
