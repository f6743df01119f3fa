package searcher

import (
	"catan/experiments/metrics"
	"catan/game"
	"catan/meta"
	"time"
)

// Option configures either searcher. Options a searcher has no use for are
// ignored. A zero budget leaves the default in place, a negative one is
// rejected when the searcher is built.
type Option func(c *config)

type config struct {
	goroutines int
	duration   time.Duration
	episodes   int
	cutoff     int
	depth      int
	pruning    bool
	ordering   bool
	nodeBudget int
	seed       uint64
	evaluate   game.Evaluate
	metrics    metrics.Collector
}

func defaultConfig() config {
	return config{
		goroutines: 1,
		cutoff:     meta.WITH_CUTOFF,
		depth:      meta.SEARCH_DEPTH,
		pruning:    true,
		seed:       meta.SEARCH_SEED,
		metrics:    metrics.NewDummyCollector(),
	}
}

func WithGoroutines(goroutines int) Option {
	return func(c *config) {
		c.goroutines = goroutines
	}
}

func WithDuration(duration time.Duration) Option {
	return func(c *config) {
		if duration != 0 {
			c.duration = duration
		}
	}
}

func WithEpisodes(episodes int) Option {
	return func(c *config) {
		if episodes != 0 {
			c.episodes = episodes
		}
	}
}

func WithCutoff(depth int) Option {
	return func(c *config) {
		if depth != 0 {
			c.cutoff = depth
		}
	}
}

// WithDepth sets the alpha-beta horizon in plies.
func WithDepth(depth int) Option {
	return func(c *config) {
		c.depth = depth
	}
}

func WithPruning(pruning bool) Option {
	return func(c *config) {
		c.pruning = pruning
	}
}

// WithMoveOrdering searches inner nodes best-first by static evaluation.
func WithMoveOrdering(ordering bool) Option {
	return func(c *config) {
		c.ordering = ordering
	}
}

// WithNodeBudget stops alpha-beta after visiting this many nodes.
func WithNodeBudget(nodes int) Option {
	return func(c *config) {
		if nodes != 0 {
			c.nodeBudget = nodes
		}
	}
}

// WithSeed sets the seed chance outcomes are resolved with inside the search.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(c *config) {
		if evaluate != nil {
			c.evaluate = evaluate
		}
	}
}

func WithWeights(weights game.Weights) Option {
	return func(c *config) {
		if weights != nil {
			c.evaluate = weights.Evaluate()
		}
	}
}

func WithMetrics() Option {
	return func(c *config) {
		c.metrics = metrics.NewCollector()
	}
}

func (c *config) validate() error {
	switch {
	case c.goroutines <= 0:
		return game.NewConfigurationError("goroutines", "must be positive, got %d", c.goroutines)
	case c.duration < 0:
		return game.NewConfigurationError("duration", "must not be negative, got %v", c.duration)
	case c.episodes < 0:
		return game.NewConfigurationError("episodes", "must not be negative, got %d", c.episodes)
	case c.cutoff < 0:
		return game.NewConfigurationError("cutoff", "must not be negative, got %d", c.cutoff)
	case c.nodeBudget < 0:
		return game.NewConfigurationError("node_budget", "must not be negative, got %d", c.nodeBudget)
	}
	return nil
}
