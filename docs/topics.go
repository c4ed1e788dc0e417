// Package docs holds the help topics, embedded in the binary.
package docs

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

//go:embed *.md
var files embed.FS

// index is the topic listing all the others.
const index = "readme"

// Topic is a help page.
type Topic struct {
	Name  string
	Title string
}

// GetTopic returns the markdown of a topic, "*" means every topic.
func GetTopic(name string) (string, error) {
	if name == "*" {
		names, err := TopicNames()
		if err != nil {
			return "", err
		}
		return GetTopics(names...)
	}
	content, err := files.ReadFile(strings.ToLower(name) + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found: %w", name, err)
	}
	return string(content), nil
}

// GetTopics concatenates several topics.
func GetTopics(names ...string) (string, error) {
	var b strings.Builder
	for _, name := range names {
		content, err := GetTopic(name)
		if err != nil {
			return "", err
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// TopicNames returns the names of the topics, the index excluded, sorted.
func TopicNames() ([]string, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		if e.IsDir() || name == index {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// Topics returns every topic with its title.
func Topics() ([]Topic, error) {
	names, err := TopicNames()
	if err != nil {
		return nil, err
	}
	topics := make([]Topic, 0, len(names))
	for _, name := range names {
		content, err := files.ReadFile(name + ".md")
		if err != nil {
			return nil, err
		}
		topics = append(topics, Topic{Name: name, Title: title(content)})
	}
	return topics, nil
}

// title returns the text of the first heading of a markdown document.
func title(source []byte) string {
	root := goldmark.DefaultParser().Parse(text.NewReader(source))
	var t string
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		h, ok := n.(*ast.Heading)
		if !entering || !ok {
			return ast.WalkContinue, nil
		}
		var b strings.Builder
		for c := h.FirstChild(); c != nil; c = c.NextSibling() {
			if txt, ok := c.(*ast.Text); ok {
				b.Write(txt.Segment.Value(source))
			}
		}
		t = b.String()
		return ast.WalkStop, nil
	})
	return t
}
