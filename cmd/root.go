package cmd

import (
	"errors"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ted-design/talentmatch/internal/logger"
	"github.com/ted-design/talentmatch/internal/matching"
	"github.com/ted-design/talentmatch/internal/measurement"
	"github.com/ted-design/talentmatch/internal/report"
	"github.com/ted-design/talentmatch/internal/roster"
	"github.com/ted-design/talentmatch/internal/talent"
)

const (
	app = "talentmatch"

	defaultConcurrency = 4
)

type Config struct {
	Roster      string            `mapstructure:"roster"`
	Output      string            `mapstructure:"output"`
	Concurrency int               `mapstructure:"concurrency"`
	Shortlist   string            `mapstructure:"shortlist"`
	Scoring     *ScoringConfig    `mapstructure:"scoring"`
	Labels      map[string]string `mapstructure:"labels"`
	Exclude     *struct {
		Agencies []string `mapstructure:"agencies"`
	} `mapstructure:"exclude"`
}

type ScoringConfig struct {
	Tolerance float64 `mapstructure:"tolerance"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "talentmatch filters a talent roster and ranks it against casting briefs",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("roster", "TALENTMATCH_ROSTER"); err != nil {
		log.Fatalf("binding TALENTMATCH_ROSTER environment variable: %v", err)
	}

	viper.SetDefault("output", string(report.FormatTable))
	viper.SetDefault("concurrency", defaultConcurrency)
	viper.SetDefault("scoring.tolerance", matching.DefaultTolerance)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is talentmatch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("roster", "r", "", "roster file (.json, .yaml or .yml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format: table or json")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("roster", rootCmd.PersistentFlags().Lookup("roster"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	// The config file is optional unless given explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}

// setup builds the logger and reads the configuration shared by all commands.
func setup() (*zap.Logger, *Config) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		config = &Config{}
	}

	if path := viper.ConfigFileUsed(); path != "" {
		logger.Debug("using config file", zap.String("path", path))
	}

	return logger, config
}

func (c *Config) scorer() *matching.Scorer {
	labels := measurement.DefaultLabels().Merge(c.Labels)
	if c.Scoring == nil {
		return matching.NewScorer(labels)
	}
	return matching.NewScorer(labels, matching.WithTolerance(c.Scoring.Tolerance))
}

func (c *Config) excludedAgencies() []string {
	if c.Exclude == nil {
		return nil
	}
	return c.Exclude.Agencies
}

func (c *Config) format(logger *zap.Logger) report.Format {
	format, err := report.ParseFormat(c.Output)
	if err != nil {
		logger.Fatal("choosing output format", zap.Error(err))
	}
	return format
}

func loadRoster(logger *zap.Logger, config *Config) *talent.Roster {
	path := strings.TrimSpace(config.Roster)
	if path == "" {
		logger.Fatal("roster is required",
			zap.String("hint", "pass --roster, set TALENTMATCH_ROSTER or the 'roster' key in the configuration file"),
		)
	}

	roster, err := roster.LoadTalent(path)
	if err != nil {
		logger.Fatal("loading roster", zap.Error(err))
	}

	logger.Info("loaded roster", zap.String("path", path), zap.Int("count", roster.Len()))
	return roster
}
