// Package testkit generates deterministic fixture datasets for tests.
package testkit

import (
	"fmt"
	"math"
	"math/rand"

	"gothesis/domain/dataset"
)

// GeneratorConfig configures the fixture generator
type GeneratorConfig struct {
	Seed int64 `json:"seed"`
}

// DefaultConfig uses a fixed seed so fixtures are reproducible
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{Seed: 42}
}

// Generator produces seeded samples and datasets
type Generator struct {
	config GeneratorConfig
	rng    *rand.Rand
}

// NewGenerator creates a generator from config
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Stream returns a generator whose seed mixes the base seed with a name, so independent
// fixtures in one test do not share a sequence
func (g *Generator) Stream(name string) *Generator {
	return NewGenerator(GeneratorConfig{Seed: g.config.Seed + int64(hashString(name))})
}

// Normal draws n values from N(mean, sd²)
func (g *Generator) Normal(n int, mean, sd float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = mean + sd*g.rng.NormFloat64()
	}
	return out
}

// Exponential draws n right-skewed values with the given mean
func (g *Generator) Exponential(n int, mean float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = mean * g.rng.ExpFloat64()
	}
	return out
}

// GroupSpec describes one group of a grouped fixture
type GroupSpec struct {
	Label string
	N     int
	Mean  float64
	SD    float64
}

// Grouped builds a dataset with a categorical grouping column and a numeric outcome
// drawn from N(Mean, SD²) per group. Rows follow the order of specs.
func (g *Generator) Grouped(groupVar, valueVar string, specs ...GroupSpec) *dataset.Dataset {
	var labels []string
	var values []float64
	for _, s := range specs {
		for _, v := range g.Normal(s.N, s.Mean, s.SD) {
			labels = append(labels, s.Label)
			values = append(values, v)
		}
	}
	return dataset.MustNew(
		dataset.NewCategoricalColumn(groupVar, labels),
		dataset.NewNumericColumn(valueVar, values),
	)
}

// Paired builds two numeric columns where second = first + shift + noise
func (g *Generator) Paired(first, second string, n int, shift, noise float64) *dataset.Dataset {
	a := g.Normal(n, 50, 10)
	b := make([]float64, n)
	for i := range a {
		b[i] = a[i] + shift + noise*g.rng.NormFloat64()
	}
	return dataset.MustNew(
		dataset.NewNumericColumn(first, a),
		dataset.NewNumericColumn(second, b),
	)
}

// Likert builds k item columns named prefix1..prefixK on a 1-5 scale. Each answer is a
// shared latent trait plus item noise; noise = 0 makes every item identical.
func (g *Generator) Likert(prefix string, k, n int, noise float64) *dataset.Dataset {
	latent := g.Normal(n, 0, 1)
	cols := make([]dataset.Column, k)
	for j := 0; j < k; j++ {
		values := make([]float64, n)
		for i := range values {
			values[i] = likert(3 + 1.2*latent[i] + noise*g.rng.NormFloat64())
		}
		cols[j] = dataset.NewNumericColumn(fmt.Sprintf("%s%d", prefix, j+1), values)
	}
	return dataset.MustNew(cols...)
}

// Categorical draws n labels from levels with the given weights
func (g *Generator) Categorical(n int, levels []string, weights []float64) []string {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	out := make([]string, n)
	for i := range out {
		u := g.rng.Float64() * total
		for j, w := range weights {
			if u < w || j == len(weights)-1 {
				out[i] = levels[j]
				break
			}
			u -= w
		}
	}
	return out
}

func likert(x float64) float64 {
	return math.Max(1, math.Min(5, math.Round(x)))
}

// hashString is djb2
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint32(c)
	}
	return hash
}
