// meta/meta.go
package meta

// WITH_CUTOFF defines the rollout cutoff (in moves) for MCTS.
const WITH_CUTOFF = 100

// MAX_TURNS defines the number of turns after which a game ends without a winner.
const MAX_TURNS = 300

// SEARCH_DEPTH defines the alpha-beta depth in plies.
const SEARCH_DEPTH = 2

// SEARCH_SEED defines the seed alpha-beta resolves chance outcomes with.
const SEARCH_SEED = 1

// NODE_CHECK_INTERVAL defines how many nodes alpha-beta visits between deadline checks.
const NODE_CHECK_INTERVAL = 256

// GAMES_PER_MATCHUP defines the number of games played per experiment matchup.
const GAMES_PER_MATCHUP = 30
