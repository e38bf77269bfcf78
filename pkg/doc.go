// Package pkg provides the core libraries for Grove social network processing.
//
// # Overview
//
// Grove turns hand-written XML documents describing a social network into
// validated trees, compact binary archives, and graph analytics. The pkg
// directory is organized along the processing stages:
//
//  1. [token] - Tokenizer for the XML subset (tags, attributes, text)
//  2. [tree] - Tree construction, validation, and auto-correction
//  3. [format] - Pretty-printing and minification
//  4. [codec] - Dictionary-interned binary encoding (.gsn archives)
//  5. [extract] - Schema-driven entity extraction (users, posts, relations)
//  6. [graph] - Social graph construction and network analytics
//  7. [pipeline] - Orchestration with content-addressed caching
//
// # Architecture
//
// The typical data flow through Grove:
//
//	XML document
//	         ↓
//	    [token] package (tokenize)
//	         ↓
//	    [tree] package (build + validate, or auto-correct)
//	         ↓
//	    [format] / [codec] (text or binary output)
//	         ↓
//	    [extract] package (users, posts, follow relations)
//	         ↓
//	    [graph] package (build graph, run queries)
//
// # Quick Start
//
// Parse a document and find the most influential user:
//
//	import (
//	    "github.com/grovekit/grove/pkg/extract"
//	    "github.com/grovekit/grove/pkg/graph"
//	    "github.com/grovekit/grove/pkg/pipeline"
//	)
//
//	root, _, _, err := pipeline.Process(input, false)
//	if err != nil {
//	    return err
//	}
//	res := extract.Extract(root, extract.DefaultSchema())
//	g, _ := graph.Build(res)
//	id, err := graph.MostInfluential(g)
//
// The [pipeline] package layers caching and logging on top of the same flow;
// the CLI in internal/cli is a thin wrapper around it.
//
// # Error Handling
//
// Structural problems in a document (mismatched tags, text outside the root)
// are accumulated as token.ParseError values alongside a best-effort tree.
// Request-fatal conditions (corrupt archives, bad queries) use the structured
// codes in the [errors] package.
package pkg
