package watchlist

import (
	"fmt"
	"os"
	"strings"

	"NewsPull/internal/domain/models"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ConfigError marks an invalid watchlist or policy. Fatal at startup.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("watchlist config: %s: %s", e.Field, e.Msg)
}

type policyFile struct {
	Alias          string   `yaml:"alias" validate:"required"`
	RequireContext []string `yaml:"require_context"`
	Window         int      `yaml:"window" validate:"gte=0,lte=1000"`
	Exclude        []string `yaml:"exclude"`
}

type tickerFile struct {
	Symbol   string       `yaml:"symbol" validate:"required,max=12"`
	Name     string       `yaml:"name" validate:"required"`
	Aliases  []string     `yaml:"aliases"`
	Policies []policyFile `yaml:"policies"`
}

type watchlistFile struct {
	Tickers []tickerFile `yaml:"tickers" validate:"required,min=1,dive"`
}

// Load reads the watchlist YAML and builds the alias index. Every structural
// problem is reported as a ConfigError so the process can fail fast.
func Load(path string) (*AliasIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read watchlist %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds the alias index from raw YAML.
func Parse(data []byte) (*AliasIndex, error) {
	var f watchlistFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse watchlist: %w", err)
	}
	if err := validator.New().Struct(&f); err != nil {
		return nil, &ConfigError{Field: "tickers", Msg: err.Error()}
	}

	seen := make(map[string]bool)
	entries := make([]models.TickerEntry, 0, len(f.Tickers))
	for _, t := range f.Tickers {
		if seen[t.Symbol] {
			return nil, &ConfigError{Field: t.Symbol, Msg: "duplicate symbol"}
		}
		seen[t.Symbol] = true

		if len(t.Aliases) == 0 {
			return nil, &ConfigError{Field: t.Symbol, Msg: "empty alias list"}
		}
		aliases := make([]string, 0, len(t.Aliases))
		for _, a := range t.Aliases {
			a = strings.TrimSpace(a)
			if a == "" {
				return nil, &ConfigError{Field: t.Symbol, Msg: "blank alias"}
			}
			aliases = append(aliases, a)
		}

		policies := make(map[string]models.AliasPolicy, len(t.Policies))
		for _, p := range t.Policies {
			key := strings.ToLower(p.Alias)
			if !containsFold(aliases, p.Alias) {
				return nil, &ConfigError{
					Field: t.Symbol + "." + p.Alias,
					Msg:   "policy references unknown alias",
				}
			}
			if term, ok := listOverlap(p.RequireContext, p.Exclude); ok {
				return nil, &ConfigError{
					Field: t.Symbol + "." + p.Alias,
					Msg:   fmt.Sprintf("term %q in both require_context and exclude", term),
				}
			}
			policies[key] = models.AliasPolicy{
				RequireContext: p.RequireContext,
				Window:         p.Window,
				Exclude:        p.Exclude,
			}
		}

		entries = append(entries, models.TickerEntry{
			Symbol:        t.Symbol,
			CanonicalName: t.Name,
			Aliases:       aliases,
			Policies:      policies,
		})
	}

	return newAliasIndex(entries), nil
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func listOverlap(a, b []string) (string, bool) {
	for _, x := range a {
		for _, y := range b {
			if strings.EqualFold(strings.TrimSpace(x), strings.TrimSpace(y)) {
				return x, true
			}
		}
	}
	return "", false
}
