package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/stitts-dev/dfs-lineups/internal/lineup"
)

type Config struct {
	// Server
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Slate store
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Contest rules
	SalaryCap        int    `mapstructure:"SALARY_CAP"`
	MinAverageSalary int    `mapstructure:"MIN_AVERAGE_SALARY"`
	RosterSlots      string `mapstructure:"ROSTER_SLOTS"`
	Eligibility      string `mapstructure:"ELIGIBILITY"`

	// Search
	SearchPolicy     string        `mapstructure:"SEARCH_POLICY"`
	SearchStrategy   string        `mapstructure:"SEARCH_STRATEGY"`
	SearchWorkers    int           `mapstructure:"SEARCH_WORKERS"`
	SearchTimeout    time.Duration `mapstructure:"SEARCH_TIMEOUT"`
	SearchNodeBudget int64         `mapstructure:"SEARCH_NODE_BUDGET"`
	SearchDedup      bool          `mapstructure:"SEARCH_DEDUP"`
	MaxLineups       int           `mapstructure:"MAX_LINEUPS"`
}

// LoadConfig reads configuration from the environment and an optional .env
// file in the working directory or its parent.
func LoadConfig() (*Config, error) {
	return LoadConfigFile("")
}

// LoadConfigFile is LoadConfig with an explicit config file. An empty path
// falls back to the .env lookup.
func LoadConfigFile(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".env")
		v.SetConfigType("env")
		v.AddConfigPath(".")
		v.AddConfigPath("..")
	}

	setDefaults(v)

	// Read from environment
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	defaults := lineup.DraftKingsNBA()

	v.SetDefault("PORT", "8083")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("DATABASE_URL", "sqlite://lineups.db")

	v.SetDefault("SALARY_CAP", defaults.SalaryCap)
	v.SetDefault("MIN_AVERAGE_SALARY", defaults.MinAverageSalary)
	v.SetDefault("ROSTER_SLOTS", strings.Join(defaults.Roster, ","))
	v.SetDefault("ELIGIBILITY", FormatEligibility(defaults.Eligibility))

	v.SetDefault("SEARCH_POLICY", "strict")
	v.SetDefault("SEARCH_STRATEGY", "indexed")
	v.SetDefault("SEARCH_WORKERS", 0) // 0 = one per CPU
	v.SetDefault("SEARCH_TIMEOUT", "30s")
	v.SetDefault("SEARCH_NODE_BUDGET", 0) // 0 = unlimited
	v.SetDefault("SEARCH_DEDUP", true)
	v.SetDefault("MAX_LINEUPS", 150)
}

// Rules builds the contest rules the search engine runs against.
func (c *Config) Rules() (lineup.Rules, error) {
	roster := splitList(c.RosterSlots, ",")
	eligibility, err := ParseEligibility(c.Eligibility)
	if err != nil {
		return lineup.Rules{}, err
	}

	rules := lineup.Rules{
		Roster:           roster,
		SalaryCap:        c.SalaryCap,
		MinAverageSalary: c.MinAverageSalary,
		Eligibility:      eligibility,
	}
	if err := rules.Validate(); err != nil {
		return lineup.Rules{}, err
	}
	return rules, nil
}

// SearchOptions builds the engine options from the search settings.
func (c *Config) SearchOptions() (lineup.Options, error) {
	policy, err := lineup.ParsePolicy(c.SearchPolicy)
	if err != nil {
		return lineup.Options{}, err
	}
	strategy, err := lineup.ParseStrategy(c.SearchStrategy)
	if err != nil {
		return lineup.Options{}, err
	}

	return lineup.Options{
		Policy:     policy,
		Strategy:   strategy,
		Workers:    c.SearchWorkers,
		Timeout:    c.SearchTimeout,
		NodeBudget: c.SearchNodeBudget,
		Dedup:      c.SearchDedup,
		MaxLineups: c.MaxLineups,
	}, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// ParseEligibility reads "ROLE:SLOT/SLOT,ROLE:SLOT" into a table, keeping
// the slot order as priority.
func ParseEligibility(s string) (lineup.EligibilityTable, error) {
	table := lineup.EligibilityTable{}
	for _, entry := range splitList(s, ",") {
		role, slots, ok := strings.Cut(entry, ":")
		role = strings.TrimSpace(role)
		if !ok || role == "" {
			return nil, fmt.Errorf("invalid eligibility entry %q: expected ROLE:SLOT/SLOT", entry)
		}
		list := splitList(slots, "/")
		if len(list) == 0 {
			return nil, fmt.Errorf("invalid eligibility entry %q: no slots", entry)
		}
		if _, dup := table[role]; dup {
			return nil, fmt.Errorf("invalid eligibility entry %q: role listed twice", entry)
		}
		table[role] = list
	}
	return table, nil
}

// FormatEligibility is the inverse of ParseEligibility, roles sorted.
func FormatEligibility(table lineup.EligibilityTable) string {
	entries := make([]string, 0, len(table))
	for _, role := range table.Roles() {
		entries = append(entries, role+":"+strings.Join(table[role], "/"))
	}
	return strings.Join(entries, ",")
}

func splitList(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
