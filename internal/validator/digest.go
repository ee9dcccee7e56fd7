// Package validator checks that a digest file has the expected structure.
package validator

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"notiondigest/internal/digest"
	"notiondigest/pkg/metadata"
)

// Heading levels used by the digest layout.
const (
	tagLevel   = 2
	entryLevel = 3
)

// ValidationError is a structural problem at a source line.
type ValidationError struct {
	Message string
	Line    int
}

func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}

	return e.Message
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []string
	Stats    ValidationStats
	IsValid  bool
}

// ValidationStats counts what the validator found.
type ValidationStats struct {
	TagGroups         int
	Entries           int
	EntriesWithoutURL int
	Signed            bool
	HasFrontMatter    bool
}

// DigestValidator validates rendered weekly digests.
type DigestValidator struct {
	md goldmark.Markdown
}

// NewDigestValidator creates a validator with GitHub flavored Markdown enabled.
func NewDigestValidator() *DigestValidator {
	return &DigestValidator{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Validate checks content, which may carry front matter and a metadata block.
//
// Every entry must be an h3 heading inside an h2 tag group, followed by a link paragraph.
// Headings from page bodies are reported as warnings, not errors.
func (v *DigestValidator) Validate(content string) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ValidationError{},
		Warnings: []string{},
	}

	meta := v.checkSignature(content, result)

	_, clean := metadata.Extract(content)

	fm, body, err := digest.SplitFrontMatter(clean)
	if err != nil {
		result.addError(0, err.Error())
	}

	if fm != nil {
		result.Stats.HasFrontMatter = true
	}

	src := []byte(body)
	if len(bytes.TrimSpace(src)) == 0 {
		result.addError(0, "digest is empty")
		result.IsValid = false

		return result
	}

	doc := v.md.Parser().Parse(text.NewReader(src))
	v.walk(doc, src, result)

	if result.Stats.TagGroups == 0 {
		result.addError(0, "no tag groups found")
	}

	if result.Stats.Entries == 0 {
		result.addError(0, "no entries found")
	}

	if fm != nil {
		if fm.Entries != result.Stats.Entries {
			result.addWarning("front matter lists %d entries, found %d", fm.Entries, result.Stats.Entries)
		}

		if len(fm.Tags) != result.Stats.TagGroups {
			result.addWarning("front matter lists %d tags, found %d groups", len(fm.Tags), result.Stats.TagGroups)
		}
	}

	if meta != nil && meta.Entries != result.Stats.Entries {
		result.addWarning("metadata lists %d entries, found %d", meta.Entries, result.Stats.Entries)
	}

	result.IsValid = len(result.Errors) == 0

	return result
}

// checkSignature verifies the metadata block when one is present.
func (v *DigestValidator) checkSignature(content string, result *ValidationResult) *metadata.Metadata {
	if !strings.Contains(content, metadata.TagStart) {
		return nil
	}

	result.Stats.Signed = true

	meta, err := metadata.Verify(content)
	if err != nil {
		result.addError(0, fmt.Sprintf("signature check failed: %v", err))
	}

	return meta
}

func (v *DigestValidator) walk(doc ast.Node, src []byte, result *ValidationResult) {
	var (
		currentTag   string
		groupEntries int
		seenTags     = map[string]int{}
	)

	closeGroup := func() {
		if currentTag != "" && groupEntries == 0 {
			result.addWarning("tag group %q has no entries", currentTag)
		}
	}

	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		heading, ok := node.(*ast.Heading)
		if !ok {
			continue
		}

		line := lineOf(heading, src)
		title := strings.TrimSpace(nodeText(heading, src))

		switch heading.Level {
		case tagLevel:
			closeGroup()

			if prev, dup := seenTags[title]; dup {
				result.addWarning("tag group %q repeats the group at line %d", title, prev)
			} else {
				seenTags[title] = line
			}

			currentTag = title
			groupEntries = 0
			result.Stats.TagGroups++
		case entryLevel:
			link := entryLink(heading)
			if link == nil {
				result.addWarning("line %d: heading %q is not followed by a link", line, title)

				continue
			}

			if currentTag == "" {
				result.addError(line, fmt.Sprintf("entry %q appears before any tag group", title))
			}

			groupEntries++
			result.Stats.Entries++

			if len(link.Destination) == 0 {
				result.Stats.EntriesWithoutURL++
				result.addWarning("line %d: entry %q has no URL", line, title)
			}

			if label := strings.TrimSpace(nodeText(link, src)); label != title {
				result.addWarning("line %d: link text %q does not match title %q", line, label, title)
			}
		}
	}

	closeGroup()
}

// entryLink returns the link opening the paragraph right after heading.
func entryLink(heading *ast.Heading) *ast.Link {
	para, ok := heading.NextSibling().(*ast.Paragraph)
	if !ok {
		return nil
	}

	link, ok := para.FirstChild().(*ast.Link)
	if !ok {
		return nil
	}

	return link
}

func nodeText(n ast.Node, src []byte) string {
	var sb strings.Builder

	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch t := child.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))

			if t.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		}

		return ast.WalkContinue, nil
	})

	return sb.String()
}

func lineOf(n ast.Node, src []byte) int {
	lines := n.Lines()
	if lines == nil || lines.Len() == 0 {
		return 0
	}

	return bytes.Count(src[:lines.At(0).Start], []byte("\n")) + 1
}

func (r *ValidationResult) addError(line int, msg string) {
	r.Errors = append(r.Errors, ValidationError{Line: line, Message: msg})
}

func (r *ValidationResult) addWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}
