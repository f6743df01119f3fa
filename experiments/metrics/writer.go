package metrics

import (
	"catan/game"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// AgentConfig describes one player setup taking part in an experiment.
type AgentConfig struct {
	ID          int
	Label       string
	Kind        string // alphabeta, value, mcts or random
	Depth       int
	Pruning     bool
	Ordering    bool
	Goroutines  int
	Duration    time.Duration
	Episodes    int
	Cutoff      int
	NodeBudget  int
	Temperature float64 // MCTS move sampling, 0 plays the most visited move
	Weights     game.Weights
}

type GameRecord struct {
	ID      int
	Matchup string
	Agent1  int // AgentConfig.ID
	Agent2  int // AgentConfig.ID
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

// Tally counts the outcomes of one matchup.
type Tally struct {
	Wins     [2]int `json:"wins"` // Indexed by seat in the matchup
	NoWinner int    `json:"no_winner"`
}

// Leader is the seat with more wins, or -1 on a tie.
func (t Tally) Leader() int {
	switch {
	case t.Wins[0] > t.Wins[1]:
		return 0
	case t.Wins[1] > t.Wins[0]:
		return 1
	}
	return -1
}

func (t Tally) Games() int {
	return t.Wins[0] + t.Wins[1] + t.NoWinner
}

type Writer struct {
	baseDir string
}

func NewWriter(root, name string) (*Writer, error) {
	// Create a subfolder named by current timestamp
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) writeCSV(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	err = writer.WriteAll(rows)
	if err != nil {
		return fmt.Errorf("failed to write %s rows: %w", name, err)
	}
	return nil
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "label", "kind", "depth", "pruning", "ordering", "goroutines", "duration", "episodes", "cutoff", "node_budget", "temperature"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Label,
			config.Kind,
			strconv.Itoa(config.Depth),
			strconv.FormatBool(config.Pruning),
			strconv.FormatBool(config.Ordering),
			strconv.Itoa(config.Goroutines),
			config.Duration.String(),
			strconv.Itoa(config.Episodes),
			strconv.Itoa(config.Cutoff),
			strconv.Itoa(config.NodeBudget),
			strconv.FormatFloat(config.Temperature, 'g', -1, 64),
		})
	}
	return w.writeCSV("agent_configs.csv", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "matchup", "agent1", "agent2", "starting_player", "winner", "start_time", "end_time", "duration", "total_moves", "turns"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			record.Matchup,
			strconv.Itoa(record.Agent1),
			strconv.Itoa(record.Agent2),
			record.StartingPlayer.String(),
			record.Winner.String(),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
			strconv.Itoa(record.Turns),
		})
	}
	return w.writeCSV("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "player", "duration", "depth", "nodes", "prunes", "episodes", "full_playouts", "is_tree_reset"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			record.Player.String(),
			record.Duration.String(),
			strconv.Itoa(record.Depth),
			strconv.Itoa(record.Nodes),
			strconv.Itoa(record.Prunes),
			strconv.Itoa(record.Episodes),
			strconv.Itoa(record.FullPlayouts),
			strconv.FormatBool(record.IsTreeReset),
		})
	}
	return w.writeCSV("move_records.csv", header, rows)
}

// WriteSummary stores the win tallies keyed by matchup label as JSON.
func (w *Writer) WriteSummary(tallies map[string]Tally) error {
	data, err := json.MarshalIndent(tallies, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	err = os.WriteFile(filepath.Join(w.baseDir, "summary.json"), data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}
