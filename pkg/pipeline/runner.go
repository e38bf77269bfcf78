package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/grovekit/grove/pkg/cache"
	"github.com/grovekit/grove/pkg/codec"
	"github.com/grovekit/grove/pkg/extract"
	"github.com/grovekit/grove/pkg/graph"
	"github.com/grovekit/grove/pkg/tree"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete process → extract → graph pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:       uuid.NewString(),
		ContentHash: cache.Hash(opts.Input),
	}
	logger := r.Logger.With("run_id", result.RunID)

	// Stage 1: Process
	processStart := time.Now()
	root, corrections, docHit, err := r.processWithCacheInfo(ctx, result.ContentHash, opts)
	if err != nil {
		return nil, err
	}
	result.Root = root
	result.Corrections = corrections
	result.Stats.ProcessTime = time.Since(processStart)
	result.Stats.Nodes = tree.Count(root)
	result.CacheInfo.DocumentHit = docHit

	logger.Info("processed document",
		"source", sourceName(opts),
		"nodes", result.Stats.Nodes,
		"corrections", len(corrections),
		"cached", docHit,
		"duration", result.Stats.ProcessTime)

	// Stage 2: Extract
	extractStart := time.Now()
	res := extract.Extract(root, opts.Schema())
	result.Extraction = res
	result.Warnings = append(result.Warnings, res.Warnings...)
	result.Stats.ExtractTime = time.Since(extractStart)
	result.Stats.Users = len(res.Order)
	result.Stats.Posts = len(res.Posts)

	logger.Info("extracted entities",
		"users", result.Stats.Users,
		"posts", result.Stats.Posts,
		"warnings", len(res.Warnings),
		"duration", result.Stats.ExtractTime)

	// Stage 3: Graph
	graphStart := time.Now()
	g, warnings, graphHit, err := r.graphWithCacheInfo(ctx, result.ContentHash, res, opts)
	if err != nil {
		return nil, err
	}
	result.Graph = g
	result.Warnings = append(result.Warnings, warnings...)
	result.Stats.GraphTime = time.Since(graphStart)
	result.Stats.Follows = g.EdgeCount()
	result.CacheInfo.GraphHit = graphHit

	logger.Info("assembled social graph",
		"users", g.NodeCount(),
		"follows", g.EdgeCount(),
		"cached", graphHit,
		"duration", result.Stats.GraphTime)

	return result, nil
}

// ProcessTree tokenizes and builds the document tree with caching,
// discarding cache hit info.
func (r *Runner) ProcessTree(ctx context.Context, opts Options) (*tree.Node, []tree.Correction, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, err
	}
	root, corrections, _, err := r.processWithCacheInfo(ctx, cache.Hash(opts.Input), opts)
	return root, corrections, err
}

// processWithCacheInfo builds the tree, serving it from cache when the same
// input was processed before. Corrections are only available on a miss; a
// cached tree is already corrected.
func (r *Runner) processWithCacheInfo(ctx context.Context, contentHash string, opts Options) (*tree.Node, []tree.Correction, bool, error) {
	cacheKey := r.Keyer.DocumentKey(contentHash, opts.DocumentKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			root, err := codec.Decode(data)
			if err == nil {
				return root, nil, true, nil
			}
			// A corrupt entry is evicted and rebuilt, never fatal.
			_ = r.Cache.Delete(ctx, cacheKey)
		}
	}

	root, _, corrections, err := Process(opts.Input, opts.Fix)
	if err != nil {
		return nil, nil, false, err
	}

	if data, err := codec.Encode(root); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLDocument)
	}
	return root, corrections, false, nil
}

// graphWithCacheInfo assembles the social graph, serving it from cache when
// possible. Assembly warnings are only available on a miss.
func (r *Runner) graphWithCacheInfo(ctx context.Context, contentHash string, res *extract.Result, opts Options) (*graph.Graph, []extract.Warning, bool, error) {
	cacheKey := r.Keyer.GraphKey(contentHash, opts.GraphKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			g, err := graph.ReadGraph(bytes.NewReader(data))
			if err == nil {
				return g, nil, true, nil
			}
			_ = r.Cache.Delete(ctx, cacheKey)
		}
	}

	g, warnings := graph.Build(res)
	if data, err := graph.MarshalGraph(g); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLGraph)
	}
	return g, warnings, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func sourceName(opts Options) string {
	if opts.Path != "" {
		return opts.Path
	}
	return "stdin"
}
