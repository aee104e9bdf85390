/*
Copyright © 2026 the nshmp-haz-go authors.
This file is part of nshmp-haz-go.

nshmp-haz-go is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

nshmp-haz-go is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with nshmp-haz-go.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package config loads and resolves the engine's configuration: defaults,
// then a config.toml in the model directory, then CLI flag overrides, the
// same precedence and viper/cast plumbing inmaputil/config.go uses for
// InMAP's run configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/Knetic/govaluate"
	"github.com/lnashier/viper"
	"github.com/spf13/cast"

	"github.com/usgs/nshmp-haz-go/deagg"
)

// ThreadCount names the recognized performance.threadCount values.
type ThreadCount string

const (
	One        ThreadCount = "ONE"
	Two        ThreadCount = "TWO"
	Half       ThreadCount = "HALF"
	AllButOne  ThreadCount = "ALL_BUT_ONE"
	All        ThreadCount = "ALL"
)

// Resolve returns the number of workers threadCount names, relative to
// runtime.NumCPU().
func (t ThreadCount) Resolve() int {
	n := runtime.NumCPU()
	switch t {
	case One:
		return 1
	case Two:
		if n < 2 {
			return 1
		}
		return 2
	case Half:
		if h := n / 2; h > 0 {
			return h
		}
		return 1
	case AllButOne:
		if n > 1 {
			return n - 1
		}
		return 1
	case All, "":
		return n
	default:
		return n
	}
}

// ValueFormat names hazard.valueFormat's recognized values.
type ValueFormat string

const (
	AnnualRate  ValueFormat = "ANNUAL_RATE"
	PoissonProb ValueFormat = "POISSON_PROB"
)

// Config is the fully-resolved engine configuration (§6's recognized
// keys), after defaults, config.toml, and CLI flags have all been layered.
type Config struct {
	Imts              []string
	Iml               map[string][]float64
	Truncation        float64
	ValueFormat       ValueFormat
	DistanceCutoffs   map[string]float64
	CutoffExpression  *CutoffExpression
	ThreadCount       ThreadCount
	DeaggBins         deagg.BinConfig
	DeaggReturnPeriod float64
	OutputDirectory   string
	OutputFlushLimit  int
}

// CutoffExpression evaluates a magnitude-dependent distance cutoff such as
// "min(200, 50 + 10*M)", the hazard.distanceCutoffs extension SPEC_FULL.md
// §6 adds on top of the spec's literal per-source-type map.
type CutoffExpression struct {
	raw  string
	expr *govaluate.EvaluableExpression
}

// cutoffFunctions are the functions a distance-cutoff expression may call,
// on top of govaluate's built-in arithmetic operators.
var cutoffFunctions = map[string]govaluate.ExpressionFunction{
	"min": func(args ...interface{}) (interface{}, error) {
		m, err := floatArgs(args)
		if err != nil {
			return nil, err
		}
		best := m[0]
		for _, f := range m[1:] {
			if f < best {
				best = f
			}
		}
		return best, nil
	},
	"max": func(args ...interface{}) (interface{}, error) {
		m, err := floatArgs(args)
		if err != nil {
			return nil, err
		}
		best := m[0]
		for _, f := range m[1:] {
			if f > best {
				best = f
			}
		}
		return best, nil
	},
}

func floatArgs(args []interface{}) ([]float64, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("expected at least one argument")
	}
	out := make([]float64, len(args))
	for i, a := range args {
		f, ok := a.(float64)
		if !ok {
			return nil, fmt.Errorf("argument %d is %T, want a number", i, a)
		}
		out[i] = f
	}
	return out, nil
}

// ParseCutoffExpression compiles a govaluate expression over the variable
// M (magnitude), with min/max available as functions.
func ParseCutoffExpression(raw string) (*CutoffExpression, error) {
	expr, err := govaluate.NewEvaluableExpressionWithFunctions(raw, cutoffFunctions)
	if err != nil {
		return nil, fmt.Errorf("config: hazard.distanceCutoffs expression %q: %w", raw, err)
	}
	return &CutoffExpression{raw: raw, expr: expr}, nil
}

// CutoffKm evaluates the expression at magnitude m.
func (c *CutoffExpression) CutoffKm(m float64) (float64, error) {
	result, err := c.expr.Evaluate(map[string]interface{}{"M": m})
	if err != nil {
		return 0, fmt.Errorf("config: evaluating distance cutoff expression %q at M=%g: %w", c.raw, m, err)
	}
	f, ok := result.(float64)
	if !ok {
		return 0, fmt.Errorf("config: distance cutoff expression %q returned %T, want a number", c.raw, result)
	}
	return f, nil
}

// defaults mirrors inmaputil's pattern of pre-seeding a viper instance with
// SetDefault calls before any config file or flag is read, so every key is
// always present even in a minimal config.toml.
func defaults() *viper.Viper {
	v := viper.New()
	v.SetDefault("hazard.imts", []string{"PGA"})
	v.SetDefault("hazard.truncation", 3.0)
	v.SetDefault("hazard.valueFormat", string(AnnualRate))
	v.SetDefault("hazard.distanceCutoffs", map[string]interface{}{})
	v.SetDefault("performance.threadCount", string(All))
	v.SetDefault("deagg.returnPeriod", 2475.0)
	v.SetDefault("output.directory", ".")
	v.SetDefault("output.flushLimit", 50)
	return v
}

// Load builds a Config from defaults, the config.toml at path (if it
// exists; a missing file is not an error, matching inmaputil's tolerant
// treatment of an absent config file), and env-var expansion on string
// fields the way inmaputil's checkOutputFile/checkLogFile family does.
func Load(path string) (*Config, error) {
	v := defaults()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}
	return FromViper(v)
}

// FromViper resolves a Config from an already-populated viper instance,
// the seam CLI flag overrides are layered through (mirroring
// inmaputil.VarGridConfig's direct *viper.Viper argument).
func FromViper(v *viper.Viper) (*Config, error) {
	iml, err := imlGrids(v)
	if err != nil {
		return nil, err
	}
	cutoffs, cutoffExpr, err := distanceCutoffs(v)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Imts:             v.GetStringSlice("hazard.imts"),
		Iml:              iml,
		Truncation:       v.GetFloat64("hazard.truncation"),
		ValueFormat:      ValueFormat(v.GetString("hazard.valueFormat")),
		DistanceCutoffs:  cutoffs,
		CutoffExpression: cutoffExpr,
		ThreadCount:      ThreadCount(v.GetString("performance.threadCount")),
		DeaggBins: deagg.BinConfig{
			RMin: v.GetFloat64("deagg.bins.rMin"), RMax: v.GetFloat64("deagg.bins.rMax"), DeltaR: v.GetFloat64("deagg.bins.deltaR"),
			MMin: v.GetFloat64("deagg.bins.mMin"), MMax: v.GetFloat64("deagg.bins.mMax"), DeltaM: v.GetFloat64("deagg.bins.deltaM"),
			EpsMin: v.GetFloat64("deagg.bins.epsMin"), EpsMax: v.GetFloat64("deagg.bins.epsMax"), DeltaEps: v.GetFloat64("deagg.bins.deltaEps"),
		},
		DeaggReturnPeriod: v.GetFloat64("deagg.returnPeriod"),
		OutputDirectory:   os.ExpandEnv(v.GetString("output.directory")),
		OutputFlushLimit:  v.GetInt("output.flushLimit"),
	}

	if cfg.ValueFormat != AnnualRate && cfg.ValueFormat != PoissonProb {
		return nil, fmt.Errorf("config: hazard.valueFormat %q is neither %s nor %s", cfg.ValueFormat, AnnualRate, PoissonProb)
	}
	if cfg.Truncation < 0 {
		return nil, fmt.Errorf("config: hazard.truncation must be >= 0, got %g", cfg.Truncation)
	}
	return cfg, nil
}

// imlGrids reads hazard.iml.<imt> for every configured IMT, accounting for
// viper returning either a native []interface{} or a JSON-encoded string
// when the value came from a CLI flag, the same ambiguity
// GetStringMapString works around in inmaputil.
func imlGrids(v *viper.Viper) (map[string][]float64, error) {
	out := make(map[string][]float64)
	for _, imt := range v.GetStringSlice("hazard.imts") {
		raw := v.Get("hazard.iml." + imt)
		if raw == nil {
			continue
		}
		grid, err := toFloat64SliceE(raw)
		if err != nil {
			return nil, fmt.Errorf("config: hazard.iml.%s: %w", imt, err)
		}
		out[imt] = grid
	}
	return out, nil
}

// toFloat64SliceE converts a viper value to a []float64, accounting for the
// fact that it is an []interface{} when it came from a TOML array but a
// JSON-encoded string when it came from a CLI flag override, the same gap
// inmaputil's toIntSliceE fills for cast (which has no float64-slice
// converter of its own).
func toFloat64SliceE(i interface{}) ([]float64, error) {
	if v, ok := i.([]interface{}); ok {
		o := make([]float64, len(v))
		for idx, val := range v {
			f, err := cast.ToFloat64E(val)
			if err != nil {
				return nil, err
			}
			o[idx] = f
		}
		return o, nil
	}
	s, ok := i.(string)
	if !ok {
		return nil, fmt.Errorf("cannot convert %T to []float64", i)
	}
	var o []float64
	if err := json.Unmarshal([]byte(s), &o); err != nil {
		return nil, err
	}
	return o, nil
}

// distanceCutoffs reads hazard.distanceCutoffs, which is either a plain
// per-source-type map (the spec's literal schema, preferred when present)
// or a single govaluate expression string over magnitude.
func distanceCutoffs(v *viper.Viper) (map[string]float64, *CutoffExpression, error) {
	raw := v.Get("hazard.distanceCutoffs")
	if raw == nil {
		return nil, nil, nil
	}
	if expr, ok := raw.(string); ok {
		if expr == "" {
			return nil, nil, nil
		}
		cutoffExpr, err := ParseCutoffExpression(expr)
		if err != nil {
			return nil, nil, err
		}
		return nil, cutoffExpr, nil
	}
	m, err := cast.ToStringMapE(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("config: hazard.distanceCutoffs: %w", err)
	}
	out := make(map[string]float64, len(m))
	for k, val := range m {
		f, err := cast.ToFloat64E(val)
		if err != nil {
			return nil, nil, fmt.Errorf("config: hazard.distanceCutoffs.%s: %w", k, err)
		}
		out[k] = f
	}
	return out, nil, nil
}
