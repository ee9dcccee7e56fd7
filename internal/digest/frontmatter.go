package digest

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// FrontMatter is the optional YAML header written above a digest.
type FrontMatter struct {
	GeneratedAt time.Time `yaml:"generated_at"`
	Week        string    `yaml:"week"`
	Tags        []string  `yaml:"tags"`
	Entries     int       `yaml:"entries"`
}

// RenderFrontMatter returns the header as a "---" delimited YAML block followed by a blank line.
func RenderFrontMatter(fm FrontMatter) (string, error) {
	data, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("failed to marshal front matter: %w", err)
	}

	return "---\n" + string(data) + "---\n\n", nil
}

// SplitFrontMatter separates the YAML header from the body.
// A document without a header yields a nil FrontMatter and the full content.
func SplitFrontMatter(content string) (*FrontMatter, string, error) {
	if !strings.HasPrefix(content, "---") {
		return nil, content, nil
	}

	var fm FrontMatter

	body, err := frontmatter.Parse(bytes.NewReader([]byte(content)), &fm)
	if err != nil {
		return nil, content, fmt.Errorf("failed to parse front matter: %w", err)
	}

	return &fm, strings.TrimLeft(string(body), "\n"), nil
}
