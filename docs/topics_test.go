package docs

import (
	"bufio"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	bashSetup = "bash setup"
	bashCheck = "bash check"
)

func TestTopics(t *testing.T) {
	// Every topic listed in readme.md can be loaded, and every topic file is listed.
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var listed []string
	scanner := bufio.NewScanner(file)
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	for scanner.Scan() {
		if m := topicRegex.FindStringSubmatch(scanner.Text()); len(m) > 1 {
			listed = append(listed, strings.TrimSpace(m[1]))
		}
	}

	for _, topic := range listed {
		if _, err := GetTopic(topic); err != nil {
			t.Errorf("GetTopic(%q) unexpected error: %v", topic, err)
		}
	}

	names, err := TopicNames()
	if err != nil {
		t.Fatalf("TopicNames() unexpected error: %v", err)
	}
	for _, name := range names {
		if !slices.Contains(listed, name) {
			t.Errorf("topic %q is not listed in readme.md", name)
		}
	}
}

func TestTopicTitles(t *testing.T) {
	topics, err := Topics()
	if err != nil {
		t.Fatalf("Topics() unexpected error: %v", err)
	}
	want := map[string]string{
		"comandos":   "Comandos",
		"exemplos":   "Exemplos",
		"importacao": "Importação e exportação",
	}
	for _, topic := range topics {
		if topic.Title != want[topic.Name] {
			t.Errorf("topic %q title = %q, want %q", topic.Name, topic.Title, want[topic.Name])
		}
	}
	if _, err := GetTopic("nope"); err == nil {
		t.Error("GetTopic(nope) = nil error, want an error")
	}
	all, err := GetTopic("*")
	if err != nil || !strings.Contains(all, "# Exemplos") {
		t.Errorf("GetTopic(*) = %v, want every topic", err)
	}
}

// block is a fenced code block to execute.
type block struct {
	kind    string
	content string
	line    int
}

// codeBlocks returns the executable blocks of a markdown file.
func codeBlocks(t *testing.T, file string) []block {
	t.Helper()
	source, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read %s: %v", file, err)
	}
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	var blocks []block
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		kind := string(fcb.Info.Segment.Value(source))
		if kind != bashSetup && kind != bashCheck {
			return ast.WalkContinue, nil
		}
		var b strings.Builder
		for i := 0; i < fcb.Lines().Len(); i++ {
			line := fcb.Lines().At(i)
			b.Write(line.Value(source))
		}
		blocks = append(blocks, block{
			kind:    kind,
			content: b.String(),
			line:    strings.Count(string(source[:fcb.Info.Segment.Start]), "\n") + 1,
		})
		return ast.WalkContinue, nil
	})
	return blocks
}

// TestCodeBlocks runs the shell examples of every topic against a fresh build
// of fchat.
func TestCodeBlocks(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the fchat binary")
	}
	bin := t.TempDir()
	build := exec.Command("go", "build", "-o", filepath.Join(bin, "fchat"), "../fchat/")
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("failed to build fchat: %v\n%s", err, out)
	}

	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			dir := t.TempDir()
			env := append(os.Environ(),
				"PATH="+bin+string(os.PathListSeparator)+os.Getenv("PATH"),
				"FCHAT_BACKEND=file",
				"FCHAT_DATA_FILE="+filepath.Join(dir, "financechat.json"),
				"GEMINI_API_KEY=",
			)
			for _, b := range codeBlocks(t, file) {
				cmd := exec.Command("bash", "-c", "set -e; "+b.content)
				cmd.Dir = dir
				cmd.Env = env
				if out, err := cmd.CombinedOutput(); err != nil {
					t.Errorf("%s:%d: %s failed: %v with output:\n%s", file, b.line, b.kind, err, out)
				}
			}
		})
	}
}
