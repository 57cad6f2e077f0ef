package neat

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// Config stores the configuration parameters for the evolution.
type Config struct {
	Neat          NeatConfig
	Genome        GenomeConfig
	Compatibility CompatibilityConfig
}

// NeatConfig holds parameters of the population and the reproduction loop.
type NeatConfig struct {
	PopSize           int     `ini:"pop_size"`
	NumGenerations    int     `ini:"num_generations"`
	NumSteps          int     `ini:"num_steps"` // Step budget of one evaluation episode
	SurvivalThreshold float64 `ini:"survival_threshold"`
	Elitism           int     `ini:"elitism"`           // Survivors copied unchanged into the next generation
	FitnessThreshold  float64 `ini:"fitness_threshold"` // Stop early once reached; 0 disables
	Workers           int     `ini:"workers"`           // Parallel evaluations; 0 means GOMAXPROCS
}

// GenomeConfig holds parameters for the structure and mutation of genomes.
type GenomeConfig struct {
	NumInputs  int `ini:"num_inputs"`
	NumOutputs int `ini:"num_outputs"`

	// --- Weight and bias values ---
	InitMean      float64 `ini:"init_mean"`
	InitStdev     float64 `ini:"init_stdev"`
	MinValue      float64 `ini:"min_value"`
	MaxValue      float64 `ini:"max_value"`
	MutationRate  float64 `ini:"mutation_rate"` // Bias shift probability
	MutatePower   float64 `ini:"mutate_power"`
	ReplaceRate   float64 `ini:"replace_rate"`    // Bias replace probability
	NewValueRange float64 `ini:"new_value_range"` // Range of weights/biases created by structural mutation

	// --- Mutation probabilities ---
	AddNodeProb      float64 `ini:"add_node_prob"`
	AddLinkProb      float64 `ini:"add_link_prob"`
	EnableLinkProb   float64 `ini:"enable_link_prob"`
	DisableLinkProb  float64 `ini:"disable_link_prob"`
	ShiftWeightProb  float64 `ini:"shift_weight_prob"`
	RandomWeightProb float64 `ini:"random_weight_prob"`
	NumericMutation  bool    `ini:"numeric_mutation"`   // Mutate weights/biases after the structural mutation
	DisableSplitLink bool    `ini:"disable_split_link"` // Classical NEAT: disable the link split by AddNeuron

	// --- Network ---
	HiddenActivation string `ini:"hidden_activation"`
	OutputActivation string `ini:"output_activation"`
}

// CompatibilityConfig holds the genomic distance coefficients.
// No speciation is performed; the distance is only reported.
type CompatibilityConfig struct {
	C1Excess               float64 `ini:"c1_excess"`
	C2Disjoint             float64 `ini:"c2_disjoint"`
	C3Weight               float64 `ini:"c3_weight"`
	CompatibilityThreshold float64 `ini:"compatibility_threshold"`
}

// DefaultConfig returns the configuration used when no file overrides a value.
func DefaultConfig() *Config {
	return &Config{
		Neat: NeatConfig{
			PopSize:           150,
			NumGenerations:    100,
			NumSteps:          5000,
			SurvivalThreshold: 0.2,
		},
		Genome: GenomeConfig{
			NumInputs:        3,
			NumOutputs:       3,
			InitMean:         0.0,
			InitStdev:        0.5, // Small initial weights give a better starting point
			MinValue:         -5.0,
			MaxValue:         5.0,
			MutationRate:     0.2,
			MutatePower:      0.3,
			ReplaceRate:      0.05,
			NewValueRange:    1000.0,
			AddNodeProb:      0.03,
			AddLinkProb:      0.05,
			EnableLinkProb:   0.01,
			DisableLinkProb:  0.01,
			ShiftWeightProb:  0.8,
			RandomWeightProb: 0.1,
			HiddenActivation: "relu",
			OutputActivation: "identity",
		},
		Compatibility: CompatibilityConfig{
			C1Excess:               1.0,
			C2Disjoint:             1.0,
			C3Weight:               0.4,
			CompatibilityThreshold: 3.0,
		},
	}
}

// LoadConfig loads configuration parameters from an INI file.
// Keys missing from the file keep their DefaultConfig values; malformed values are an error.
// Inline comments are only stripped from string values.
func LoadConfig(filePath string) (*Config, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}

	config := DefaultConfig()

	if err := cfg.Section("NEAT").StrictMapTo(&config.Neat); err != nil {
		return nil, fmt.Errorf("failed to map [NEAT] section: %w", err)
	}
	if err := cfg.Section("DefaultGenome").StrictMapTo(&config.Genome); err != nil {
		return nil, fmt.Errorf("failed to map [DefaultGenome] section: %w", err)
	}
	if err := cfg.Section("DefaultCompatibility").StrictMapTo(&config.Compatibility); err != nil {
		return nil, fmt.Errorf("failed to map [DefaultCompatibility] section: %w", err)
	}

	config.Genome.HiddenActivation = cleanIniString(config.Genome.HiddenActivation)
	config.Genome.OutputActivation = cleanIniString(config.Genome.OutputActivation)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration for values the engine cannot work with.
func (c *Config) Validate() error {
	if c.Neat.PopSize <= 0 {
		return fmt.Errorf("config error: pop_size must be positive")
	}
	if c.Neat.NumGenerations < 0 {
		return fmt.Errorf("config error: num_generations cannot be negative")
	}
	if c.Neat.NumSteps < 0 {
		return fmt.Errorf("config error: num_steps cannot be negative")
	}
	if c.Neat.SurvivalThreshold < 0 || c.Neat.SurvivalThreshold > 1 {
		return fmt.Errorf("config error: survival_threshold must be between 0 and 1")
	}
	if c.Neat.Elitism < 0 || c.Neat.Elitism > c.Neat.PopSize {
		return fmt.Errorf("config error: elitism must be between 0 and pop_size")
	}
	if c.Neat.Workers < 0 {
		return fmt.Errorf("config error: workers cannot be negative")
	}

	g := c.Genome
	if g.NumInputs <= 0 {
		return fmt.Errorf("config error: num_inputs must be positive")
	}
	if g.NumOutputs <= 0 {
		return fmt.Errorf("config error: num_outputs must be positive")
	}
	if g.InitStdev < 0 {
		return fmt.Errorf("config error: init_stdev cannot be negative")
	}
	if g.MaxValue < g.MinValue {
		return fmt.Errorf("config error: max_value cannot be less than min_value")
	}
	if g.NewValueRange < 0 {
		return fmt.Errorf("config error: new_value_range cannot be negative")
	}
	probs := map[string]float64{
		"mutation_rate":      g.MutationRate,
		"replace_rate":       g.ReplaceRate,
		"add_node_prob":      g.AddNodeProb,
		"add_link_prob":      g.AddLinkProb,
		"enable_link_prob":   g.EnableLinkProb,
		"disable_link_prob":  g.DisableLinkProb,
		"shift_weight_prob":  g.ShiftWeightProb,
		"random_weight_prob": g.RandomWeightProb,
	}
	for name, p := range probs {
		if p < 0 || p > 1 {
			return fmt.Errorf("config error: %s must be between 0 and 1", name)
		}
	}
	if _, err := GetActivation(g.HiddenActivation); err != nil {
		return fmt.Errorf("config error: hidden_activation: %w", err)
	}
	if _, err := GetActivation(g.OutputActivation); err != nil {
		return fmt.Errorf("config error: output_activation: %w", err)
	}

	if c.Compatibility.C1Excess < 0 || c.Compatibility.C2Disjoint < 0 || c.Compatibility.C3Weight < 0 {
		return fmt.Errorf("config error: compatibility coefficients cannot be negative")
	}
	if c.Compatibility.CompatibilityThreshold < 0 {
		return fmt.Errorf("config error: compatibility_threshold cannot be negative")
	}
	return nil
}

// cleanIniString removes inline comments and trims whitespace from a string read from INI.
func cleanIniString(s string) string {
	if idx := strings.IndexAny(s, "#;"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(strings.ToLower(s))
}
