// Package config loads experiment definitions from YAML. A file is checked
// against an embedded JSON schema first, then for value ranges the schema
// does not express.
package config

import (
	"catan/experiments"
	"catan/experiments/metrics"
	"catan/game"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaSource string

const schemaURL = "experiment.schema.json"

var schema = jsonschema.MustCompileString(schemaURL, schemaSource)

type Config struct {
	Name      string    `yaml:"name"`
	Games     int       `yaml:"games"`
	MaxTurns  int       `yaml:"max_turns"`
	Seed      uint64    `yaml:"seed"`
	RandomMap bool      `yaml:"random_map"`
	Rules     Rules     `yaml:"rules"`
	Output    Output    `yaml:"output"`
	Agents    []Agent   `yaml:"agents"`
	Matchups  []Matchup `yaml:"matchups"`
	Sweep     *Sweep    `yaml:"sweep"`
	Scaling   *Scaling  `yaml:"scaling"`
}

// Rules overrides the standard rules, zero fields keep the standard value.
type Rules struct {
	VictoryPoints int `yaml:"victory_points"`
	DiscardLimit  int `yaml:"discard_limit"`
	BankSize      int `yaml:"bank_size"`
	TradeRate     int `yaml:"trade_rate"`
}

type Output struct {
	Dir string `yaml:"dir"`
	DB  string `yaml:"db"` // SQLite result store, empty to skip
}

type Agent struct {
	ID          int                `yaml:"id"`
	Label       string             `yaml:"label"`
	Kind        string             `yaml:"kind"`
	Depth       int                `yaml:"depth"`
	Pruning     *bool              `yaml:"pruning"` // Defaults to true
	Ordering    bool               `yaml:"ordering"`
	Goroutines  int                `yaml:"goroutines"`
	Duration    string             `yaml:"duration"`
	Episodes    int                `yaml:"episodes"`
	Cutoff      int                `yaml:"cutoff"`
	NodeBudget  int                `yaml:"node_budget"`
	Temperature float64            `yaml:"temperature"`
	Weights     map[string]float64 `yaml:"weights"` // Overrides of the default weights
}

type Matchup struct {
	Label  string `yaml:"label"`
	Agents []int  `yaml:"agents"` // Two agent IDs, the first plays Red
}

// Sweep adds one alpha-beta vs baseline matchup per value of a single weight.
type Sweep struct {
	Feature string    `yaml:"feature"`
	Values  []float64 `yaml:"values"`
	Depth   int       `yaml:"depth"`
	Pruning *bool     `yaml:"pruning"`
}

// Scaling plays one agent against itself once per goroutine count.
type Scaling struct {
	Agent      int   `yaml:"agent"`
	Goroutines []int `yaml:"goroutines"`
}

// Load reads and validates an experiment file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse validates YAML content against the schema and decodes it.
func Parse(raw []byte) (*Config, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	// The schema validator works on JSON values
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("config is not JSON compatible: %w", err)
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, err
	}
	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("config does not match schema: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the ranges and references the schema leaves open.
func (c *Config) Validate() error {
	switch {
	case c.Games < 0:
		return game.NewConfigurationError("games", "must not be negative, got %d", c.Games)
	case c.MaxTurns < 0:
		return game.NewConfigurationError("max_turns", "must not be negative, got %d", c.MaxTurns)
	case len(c.Matchups) == 0 && c.Sweep == nil && c.Scaling == nil:
		return game.NewConfigurationError("matchups", "need a matchup, a sweep or a scaling run")
	}
	if err := c.rules().Validate(); err != nil {
		return err
	}

	ids := make(map[int]bool, len(c.Agents))
	for i, a := range c.Agents {
		field := fmt.Sprintf("agents[%d]", i)
		if ids[a.ID] {
			return game.NewConfigurationError(field+".id", "id %d used twice", a.ID)
		}
		ids[a.ID] = true
		if err := a.validate(field); err != nil {
			return err
		}
	}

	for i, m := range c.Matchups {
		for _, id := range m.Agents {
			if !ids[id] {
				return game.NewConfigurationError(fmt.Sprintf("matchups[%d].agents", i), "unknown agent %d", id)
			}
		}
	}

	if s := c.Sweep; s != nil {
		if !slices.Contains(game.FeatureNames(), s.Feature) {
			return game.NewConfigurationError("sweep.feature", "unknown feature %q", s.Feature)
		}
		if s.Depth < 0 {
			return game.NewConfigurationError("sweep.depth", "must not be negative, got %d", s.Depth)
		}
	}

	if s := c.Scaling; s != nil {
		if !ids[s.Agent] {
			return game.NewConfigurationError("scaling.agent", "unknown agent %d", s.Agent)
		}
		for _, n := range s.Goroutines {
			if n <= 0 {
				return game.NewConfigurationError("scaling.goroutines", "must be positive, got %d", n)
			}
		}
	}
	return nil
}

func (a Agent) validate(field string) error {
	switch {
	case a.Depth < 0:
		return game.NewConfigurationError(field+".depth", "must not be negative, got %d", a.Depth)
	case a.Goroutines < 0:
		return game.NewConfigurationError(field+".goroutines", "must not be negative, got %d", a.Goroutines)
	case a.Episodes < 0:
		return game.NewConfigurationError(field+".episodes", "must not be negative, got %d", a.Episodes)
	case a.Cutoff < 0:
		return game.NewConfigurationError(field+".cutoff", "must not be negative, got %d", a.Cutoff)
	case a.NodeBudget < 0:
		return game.NewConfigurationError(field+".node_budget", "must not be negative, got %d", a.NodeBudget)
	case a.Temperature < 0:
		return game.NewConfigurationError(field+".temperature", "must not be negative, got %v", a.Temperature)
	}
	d, err := a.duration()
	if err != nil {
		return game.NewConfigurationError(field+".duration", "%v", err)
	}
	if a.Kind == experiments.KindMCTS && a.Episodes == 0 && d == 0 {
		return game.NewConfigurationError(field, "mcts agent needs episodes or a duration")
	}

	names := game.FeatureNames()
	for name := range a.Weights {
		if !slices.Contains(names, name) {
			log.Warn().Msgf("%s: weight %q names no feature and is ignored", field, name)
		}
	}
	return nil
}

func (a Agent) duration() (time.Duration, error) {
	if a.Duration == "" {
		return 0, nil
	}
	return time.ParseDuration(a.Duration)
}

func (c *Config) rules() *game.StandardRules {
	rules := game.NewStandardRules()
	if c.Rules.VictoryPoints != 0 {
		rules.VictoryPoints = c.Rules.VictoryPoints
	}
	if c.Rules.DiscardLimit != 0 {
		rules.MaxHandSize = c.Rules.DiscardLimit
	}
	if c.Rules.BankSize != 0 {
		rules.CardsPerKind = c.Rules.BankSize
	}
	if c.Rules.TradeRate != 0 {
		rules.TradeRate = c.Rules.TradeRate
	}
	return rules
}

// AgentConfig resolves defaults: pruning on, weights over the default table.
func (a Agent) AgentConfig() metrics.AgentConfig {
	d, _ := a.duration()
	weights := game.DefaultWeights()
	for name, w := range a.Weights {
		weights[name] = w
	}
	label := a.Label
	if label == "" {
		label = fmt.Sprintf("%s-%d", a.Kind, a.ID)
	}
	return metrics.AgentConfig{
		ID:          a.ID,
		Label:       label,
		Kind:        a.Kind,
		Depth:       a.Depth,
		Pruning:     a.Pruning == nil || *a.Pruning,
		Ordering:    a.Ordering,
		Goroutines:  a.Goroutines,
		Duration:    d,
		Episodes:    a.Episodes,
		Cutoff:      a.Cutoff,
		NodeBudget:  a.NodeBudget,
		Temperature: a.Temperature,
		Weights:     weights,
	}
}

// Experiment builds the runnable experiment: the listed matchups followed by
// the sweep and the scaling run, if any.
func (c *Config) Experiment() (experiments.Experiment, error) {
	agents := make(map[int]metrics.AgentConfig, len(c.Agents))
	for _, a := range c.Agents {
		agents[a.ID] = a.AgentConfig()
	}

	var matchups []experiments.Matchup
	for _, m := range c.Matchups {
		first, second := agents[m.Agents[0]], agents[m.Agents[1]]
		label := m.Label
		if label == "" {
			label = fmt.Sprintf("%s_vs_%s", first.Label, second.Label)
		}
		matchups = append(matchups, experiments.Matchup{Label: label, Agents: [2]metrics.AgentConfig{first, second}})
	}

	// Generated agents get IDs clear of the listed ones
	offset := 0
	for id := range agents {
		offset = max(offset, id)
	}

	if s := c.Sweep; s != nil {
		sweep, err := experiments.WeightSweep(s.Feature, s.Values, s.Depth, s.Pruning == nil || *s.Pruning)
		if err != nil {
			return experiments.Experiment{}, err
		}
		for i := range sweep {
			sweep[i].Agents[0].ID += offset
			sweep[i].Agents[1].ID += offset
		}
		offset += len(sweep) + 1
		matchups = append(matchups, sweep...)
	}

	if s := c.Scaling; s != nil {
		scaling := experiments.ParallelMatchups(agents[s.Agent], s.Goroutines)
		for i := range scaling {
			scaling[i].Agents[0].ID += offset
			scaling[i].Agents[1].ID += offset
		}
		matchups = append(matchups, scaling...)
	}

	return experiments.Experiment{
		Name:      c.Name,
		Matchups:  matchups,
		Games:     c.Games,
		MaxTurns:  c.MaxTurns,
		Seed:      c.Seed,
		Rules:     c.rules(),
		RandomMap: c.RandomMap,
	}, nil
}
