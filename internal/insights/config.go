// Package insights implements the statistical analysis core: anomaly
// detection over transaction history, budget recommendations, and smart
// notification generation. Every entry point is a pure function of its
// inputs; insufficient data yields empty results, never an error.
package insights

import (
	"time"

	"github.com/google/uuid"
)

// Config collects every detector threshold in one place. Zero values are
// not meaningful; start from DefaultConfig and override fields as needed.
type Config struct {
	// MinTransactions gates anomaly detection as a whole. Fewer
	// transactions than this yields no findings.
	MinTransactions int `toml:"min_transactions"`

	// DuplicateWindowDays is how far apart two transactions may be and
	// still be considered duplicates.
	DuplicateWindowDays int `toml:"duplicate_window_days"`

	// DuplicateAmountTolerance is the maximum absolute amount difference
	// between duplicate candidates.
	DuplicateAmountTolerance float64 `toml:"duplicate_amount_tolerance"`

	// DuplicateSimilarity is the minimum normalized description
	// similarity for duplicate candidates.
	DuplicateSimilarity float64 `toml:"duplicate_similarity"`

	// ZScoreThreshold is the outlier cutoff for unusual-amount detection,
	// in standard deviations.
	ZScoreThreshold float64 `toml:"zscore_threshold"`

	// MinPartitionSize is the minimum number of transactions of one type
	// (income or expense) before z-scores are trusted.
	MinPartitionSize int `toml:"min_partition_size"`

	// RapidWindowHours and RapidCountThreshold define a rapid-spending
	// burst: at least RapidCountThreshold transactions inside a
	// RapidWindowHours sliding window.
	RapidWindowHours    int `toml:"rapid_window_hours"`
	RapidCountThreshold int `toml:"rapid_count_threshold"`

	// MonthsToAnalyze is the trailing window for budget recommendations.
	MonthsToAnalyze int `toml:"months_to_analyze"`

	// MinRecommendationSample is the minimum transaction count inside the
	// trailing window before recommendations are produced.
	MinRecommendationSample int `toml:"min_recommendation_sample"`

	// SavingsGoalPercent is the savings rate that triggers a
	// savings_goal notification.
	SavingsGoalPercent float64 `toml:"savings_goal_percent"`

	// SpikeRatio is the recent-vs-previous week spend ratio that counts
	// as a spending spike.
	SpikeRatio float64 `toml:"spike_ratio"`

	// Now is an injectable clock for testing.
	Now func() time.Time `toml:"-"`

	// NewID generates finding ids. Production uses random UUIDs; tests
	// inject a deterministic sequence.
	NewID func() string `toml:"-"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		MinTransactions:          10,
		DuplicateWindowDays:      7,
		DuplicateAmountTolerance: 0.02,
		DuplicateSimilarity:      0.7,
		ZScoreThreshold:          2.5,
		MinPartitionSize:         10,
		RapidWindowHours:         24,
		RapidCountThreshold:      5,
		MonthsToAnalyze:          6,
		MinRecommendationSample:  10,
		SavingsGoalPercent:       20,
		SpikeRatio:               1.5,
		Now:                      time.Now,
		NewID:                    uuid.NewString,
	}
}

// Engine runs the detectors with a fixed configuration. It holds no state
// between calls and is safe for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine. Nil Now/NewID fall back to the defaults.
func NewEngine(cfg Config) *Engine {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	return &Engine{cfg: cfg}
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}
