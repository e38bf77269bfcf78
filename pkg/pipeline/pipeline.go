// Package pipeline provides the core document processing pipeline.
//
// This package implements the complete process → extract → graph pipeline
// shared by all CLI commands. Centralizing it keeps caching and correction
// behavior identical no matter which command triggers a run.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Process: Tokenize the raw document and build the element tree,
//     optionally auto-correcting structural errors
//  2. Extract: Pull users, posts and follow relations out of the tree
//  3. Graph: Assemble the directed social graph from the extraction
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input: data,
//	    Fix:   true,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	g := result.Graph
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/grovekit/grove/pkg/cache"
	"github.com/grovekit/grove/pkg/errors"
	"github.com/grovekit/grove/pkg/extract"
	"github.com/grovekit/grove/pkg/graph"
	"github.com/grovekit/grove/pkg/token"
	"github.com/grovekit/grove/pkg/tree"
)

// Options contains all configuration for a pipeline run.
type Options struct {
	// Input is the raw document to process.
	Input []byte `json:"-"`

	// Path is the source of the input, used for log messages only.
	Path string `json:"path,omitempty"`

	// SchemaPath points to an optional TOML extraction schema. When empty
	// the built-in default schema is used.
	SchemaPath string `json:"schema_path,omitempty"`

	// Fix enables auto-correction: structurally broken documents are
	// repaired instead of rejected.
	Fix bool `json:"fix,omitempty"`

	// Refresh bypasses the cache and reprocesses from scratch.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// schema is resolved from SchemaPath during validation.
	schema extract.Schema

	// schemaHash fingerprints the resolved schema for cache keys.
	schemaHash string

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this pipeline execution in logs.
	RunID string

	// ContentHash is the SHA-256 hash of the raw input.
	ContentHash string

	// Root is the processed document tree.
	Root *tree.Node

	// Corrections lists the structural repairs applied when Fix is set.
	// Empty when the document tree came from cache.
	Corrections []tree.Correction

	// Extraction holds the users, posts and relations found in the tree.
	Extraction *extract.Result

	// Graph is the directed follow graph.
	Graph *graph.Graph

	// Warnings collects non-fatal issues from extraction and graph
	// assembly, such as dangling follow references.
	Warnings []extract.Warning

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Nodes       int // elements in the document tree
	Users       int
	Posts       int
	Follows     int // edges in the social graph
	ProcessTime time.Duration
	ExtractTime time.Duration
	GraphTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	DocumentHit bool // Whether the processed tree came from cache
	GraphHit    bool // Whether the social graph came from cache
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Input) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "input document is empty")
	}

	schema, err := o.resolveSchema()
	if err != nil {
		return err
	}
	o.schema = schema

	// The schema fingerprint keys cached artifacts, so two schemas that
	// differ in any field never share entries.
	data, err := json.Marshal(schema)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "fingerprint schema")
	}
	o.schemaHash = cache.Hash(data)

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Schema returns the resolved extraction schema. ValidateAndSetDefaults
// must have been called first.
func (o *Options) Schema() extract.Schema {
	return o.schema
}

func (o *Options) resolveSchema() (extract.Schema, error) {
	if o.SchemaPath == "" {
		return extract.DefaultSchema(), nil
	}
	return extract.LoadSchema(o.SchemaPath)
}

// DocumentKeyOpts returns cache key options for the processed tree.
// The tree depends only on the input bytes and the Fix flag, never on
// the extraction schema.
func (o *Options) DocumentKeyOpts() cache.DocumentKeyOpts {
	return cache.DocumentKeyOpts{Fix: o.Fix}
}

// GraphKeyOpts returns cache key options for the derived social graph.
func (o *Options) GraphKeyOpts() cache.DocumentKeyOpts {
	return cache.DocumentKeyOpts{SchemaHash: o.schemaHash, Fix: o.Fix}
}

// Process tokenizes input and builds the element tree without a Runner,
// applying auto-correction when fix is set. Callers that need the raw
// error or correction lists (check, fix) use this directly.
func Process(input []byte, fix bool) (*tree.Node, []token.ParseError, []tree.Correction, error) {
	tokens, lexErrs := token.Tokenize(string(input))

	if fix {
		root, corrections := tree.Autocorrect(tokens)
		if root == nil {
			return nil, lexErrs, corrections, errors.New(errors.ErrCodeInvalidInput, "document has no root element")
		}
		return root, lexErrs, corrections, nil
	}

	root, buildErrs := tree.Build(tokens)
	parseErrs := append(lexErrs, buildErrs...)
	if n := token.CountFatal(parseErrs); n > 0 {
		return root, parseErrs, nil, errors.New(errors.ErrCodeInvalidInput, "document has %d structural errors", n)
	}
	if root == nil {
		return nil, parseErrs, nil, errors.New(errors.ErrCodeInvalidInput, "document has no root element")
	}
	return root, parseErrs, nil, nil
}
