package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

const testDoc = `<network>
  <user id="alice">
    <name>Alice</name>
    <post><body>hello world</body></post>
    <following id="bob"/>
  </user>
  <user id="bob">
    <name>Bob</name>
  </user>
</network>`

const testBrokenDoc = `<network><user id="alice"><name>Alice</network>`

// runCommand executes the CLI with args against an isolated cache dir.
func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := New(io.Discard, log.FatalLevel)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write test file: %v", err)
	}
	return path
}

func TestFmtCommand(t *testing.T) {
	in := writeTestFile(t, "net.xml", testDoc)
	out := filepath.Join(t.TempDir(), "out.xml")

	if err := runCommand(t, "fmt", in, "-o", out); err != nil {
		t.Fatalf("fmt error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasPrefix(string(data), "<network>") {
		t.Errorf("formatted output should start with root element, got %q", string(data)[:20])
	}
	if !strings.Contains(string(data), "    <user id=\"alice\">") {
		t.Error("formatted output should use four-space indentation")
	}
}

func TestFmtCommandRejectsBroken(t *testing.T) {
	in := writeTestFile(t, "broken.xml", testBrokenDoc)
	if err := runCommand(t, "fmt", in); err == nil {
		t.Fatal("fmt should reject a broken document")
	}
}

func TestCheckCommand(t *testing.T) {
	good := writeTestFile(t, "good.xml", testDoc)
	if err := runCommand(t, "check", good); err != nil {
		t.Errorf("check on valid document should pass: %v", err)
	}

	bad := writeTestFile(t, "bad.xml", testBrokenDoc)
	if err := runCommand(t, "check", bad); err == nil {
		t.Error("check on broken document should fail")
	}
}

func TestFixCommand(t *testing.T) {
	in := writeTestFile(t, "broken.xml", testBrokenDoc)
	out := filepath.Join(t.TempDir(), "fixed.xml")

	if err := runCommand(t, "fix", in, "-o", out, "-q"); err != nil {
		t.Fatalf("fix error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	// The repaired document must now pass check.
	if err := runCommand(t, "check", out); err != nil {
		t.Errorf("repaired document should be well-formed: %v\n%s", err, data)
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	in := writeTestFile(t, "net.xml", testDoc)
	packed := filepath.Join(t.TempDir(), "net.gsn")
	unpacked := filepath.Join(t.TempDir(), "net2.xml")

	if err := runCommand(t, "pack", in, "-o", packed); err != nil {
		t.Fatalf("pack error: %v", err)
	}
	if err := runCommand(t, "unpack", packed, "-o", unpacked); err != nil {
		t.Fatalf("unpack error: %v", err)
	}

	// Unpacked output equals the canonical formatting of the input.
	canonical := filepath.Join(t.TempDir(), "canonical.xml")
	if err := runCommand(t, "fmt", in, "-o", canonical); err != nil {
		t.Fatalf("fmt error: %v", err)
	}
	got, _ := os.ReadFile(unpacked)
	want, _ := os.ReadFile(canonical)
	if string(got) != string(want) {
		t.Errorf("pack/unpack did not round-trip:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestUnpackRejectsCorrupt(t *testing.T) {
	bad := writeTestFile(t, "bad.gsn", "not a packed document")
	if err := runCommand(t, "unpack", bad); err == nil {
		t.Error("unpack should reject corrupt input")
	}
}

func TestGraphCommand(t *testing.T) {
	in := writeTestFile(t, "net.xml", testDoc)

	for _, format := range []string{"json", "dot", "entities"} {
		out := filepath.Join(t.TempDir(), "graph."+format)
		if err := runCommand(t, "graph", in, "-f", format, "-o", out); err != nil {
			t.Fatalf("graph -f %s error: %v", format, err)
		}
		data, err := os.ReadFile(out)
		if err != nil || len(data) == 0 {
			t.Errorf("graph -f %s produced no output", format)
		}
	}

	if err := runCommand(t, "graph", in, "-f", "bogus"); err == nil {
		t.Error("graph should reject unknown formats")
	}
}

func TestAnalyzeCommands(t *testing.T) {
	in := writeTestFile(t, "net.xml", testDoc)

	if err := runCommand(t, "analyze", "active", in, "--top", "2"); err != nil {
		t.Errorf("analyze active error: %v", err)
	}
	if err := runCommand(t, "analyze", "influence", in); err != nil {
		t.Errorf("analyze influence error: %v", err)
	}
	if err := runCommand(t, "analyze", "mutual", in, "bob"); err != nil {
		t.Errorf("analyze mutual error: %v", err)
	}
	if err := runCommand(t, "analyze", "suggest", in, "alice"); err != nil {
		t.Errorf("analyze suggest error: %v", err)
	}
	if err := runCommand(t, "analyze", "stats", in); err != nil {
		t.Errorf("analyze stats error: %v", err)
	}

	// Unknown user is a query error.
	if err := runCommand(t, "analyze", "suggest", in, "nobody"); err == nil {
		t.Error("analyze suggest with unknown user should fail")
	}
}

func TestReplaceExt(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"net.xml", "net.gsn"},
		{"dir/net.xml", "dir/net.gsn"},
		{"noext", "noext.gsn"},
		{"dir.v2/noext", "dir.v2/noext.gsn"},
	}
	for _, tt := range tests {
		if got := replaceExt(tt.path, packExt); got != tt.want {
			t.Errorf("replaceExt(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
