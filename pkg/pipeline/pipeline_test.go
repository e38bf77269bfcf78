package pipeline

import (
	"context"
	"testing"

	"github.com/grovekit/grove/pkg/cache"
	"github.com/grovekit/grove/pkg/errors"
)

const sampleDoc = `<network>
  <user id="alice">
    <name>Alice</name>
    <post><body>hello world</body><topic>go</topic></post>
    <following id="bob"/>
  </user>
  <user id="bob">
    <name>Bob</name>
    <follower id="alice"/>
  </user>
</network>`

// sampleBrokenDoc leaves <post> unclosed; </user> forces an implicit close.
const sampleBrokenDoc = `<network>
  <user id="alice">
    <name>Alice</name>
    <post><body>hello</body>
  </user>
</network>`

func TestOptionsValidate(t *testing.T) {
	opts := Options{}
	err := opts.ValidateAndSetDefaults()
	if err == nil {
		t.Fatal("empty input should fail validation")
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %s, want INVALID_INPUT", errors.GetCode(err))
	}

	opts = Options{Input: []byte(sampleDoc)}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("valid options should pass: %v", err)
	}
	if opts.Schema().UserTag != "user" {
		t.Errorf("default schema user tag = %q, want user", opts.Schema().UserTag)
	}

	// Idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second validation should pass: %v", err)
	}
}

func TestOptionsKeyOpts(t *testing.T) {
	opts := Options{Input: []byte(sampleDoc), Fix: true}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	doc := opts.DocumentKeyOpts()
	if !doc.Fix {
		t.Error("DocumentKeyOpts should carry the Fix flag")
	}
	if doc.SchemaHash != "" {
		t.Error("document key must not depend on the extraction schema")
	}

	g := opts.GraphKeyOpts()
	if g.SchemaHash == "" {
		t.Error("graph key must depend on the extraction schema")
	}
}

func TestProcess(t *testing.T) {
	root, parseErrs, corrections, err := Process([]byte(sampleDoc), false)
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if root == nil || root.Tag != "network" {
		t.Fatalf("unexpected root: %+v", root)
	}
	if len(parseErrs) != 0 {
		t.Errorf("clean document should have no parse errors, got %v", parseErrs)
	}
	if len(corrections) != 0 {
		t.Errorf("corrections without fix = %v, want none", corrections)
	}
}

func TestProcessBroken(t *testing.T) {
	// Strict mode rejects the document.
	_, parseErrs, _, err := Process([]byte(sampleBrokenDoc), false)
	if err == nil {
		t.Fatal("broken document should fail without fix")
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %s, want INVALID_INPUT", errors.GetCode(err))
	}
	if len(parseErrs) == 0 {
		t.Error("expected parse errors to be reported")
	}

	// Fix mode repairs it.
	root, _, corrections, err := Process([]byte(sampleBrokenDoc), true)
	if err != nil {
		t.Fatalf("Process with fix error: %v", err)
	}
	if root == nil {
		t.Fatal("fix should produce a tree")
	}
	if len(corrections) == 0 {
		t.Error("expected corrections for the unclosed element")
	}
}

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	opts := Options{Input: []byte(sampleDoc)}
	result, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if result.RunID == "" {
		t.Error("RunID should be set")
	}
	if result.Stats.Users != 2 {
		t.Errorf("users = %d, want 2", result.Stats.Users)
	}
	if result.Stats.Posts != 1 {
		t.Errorf("posts = %d, want 1", result.Stats.Posts)
	}
	// alice → bob appears twice (following + follower); edges collapse.
	if result.Stats.Follows != 1 {
		t.Errorf("follows = %d, want 1", result.Stats.Follows)
	}
	if result.CacheInfo.DocumentHit || result.CacheInfo.GraphHit {
		t.Error("first run should not hit the cache")
	}

	// Second run hits the cache for both artifacts.
	result2, err := r.Execute(ctx, Options{Input: []byte(sampleDoc)})
	if err != nil {
		t.Fatalf("second Execute error: %v", err)
	}
	if !result2.CacheInfo.DocumentHit {
		t.Error("second run should hit the document cache")
	}
	if !result2.CacheInfo.GraphHit {
		t.Error("second run should hit the graph cache")
	}
	if result2.Graph.NodeCount() != result.Graph.NodeCount() {
		t.Error("cached graph should match the fresh one")
	}

	// Refresh bypasses the cache.
	result3, err := r.Execute(ctx, Options{Input: []byte(sampleDoc), Refresh: true})
	if err != nil {
		t.Fatalf("refresh Execute error: %v", err)
	}
	if result3.CacheInfo.DocumentHit || result3.CacheInfo.GraphHit {
		t.Error("refresh run should not hit the cache")
	}
}

func TestRunnerExecuteFix(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	// Strict mode fails.
	if _, err := r.Execute(ctx, Options{Input: []byte(sampleBrokenDoc)}); err == nil {
		t.Fatal("broken document should fail without fix")
	}

	// Fix mode still extracts the user.
	result, err := r.Execute(ctx, Options{Input: []byte(sampleBrokenDoc), Fix: true})
	if err != nil {
		t.Fatalf("Execute with fix error: %v", err)
	}
	if len(result.Corrections) == 0 {
		t.Error("expected corrections to be reported")
	}
	if result.Stats.Users != 1 {
		t.Errorf("users = %d, want 1", result.Stats.Users)
	}
}

func TestRunnerFixCachedSeparately(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	// A fixed run must not poison the strict-mode cache for the same input.
	if _, err := r.Execute(ctx, Options{Input: []byte(sampleBrokenDoc), Fix: true}); err != nil {
		t.Fatalf("Execute with fix error: %v", err)
	}
	if _, err := r.Execute(ctx, Options{Input: []byte(sampleBrokenDoc)}); err == nil {
		t.Fatal("strict run should still fail after a fixed run was cached")
	}
}
