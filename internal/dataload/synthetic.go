package dataload

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/gridscope/gridscope/internal/contract"
	"github.com/gridscope/gridscope/schema"
)

// Synthetic series shape, modeled on the Brazilian grid's hourly load:
// a base level with annual, daily and weekend components plus noise.
const (
	syntheticBaseLoad   = 70000.0 // MW
	syntheticAnnualAmp  = 5000.0
	syntheticDailyAmp   = 8000.0
	syntheticWeekendDip = -2000.0
	syntheticNoiseStd   = 1000.0

	syntheticBaseTemp     = 25.0 // °C
	syntheticTempAmp      = 5.0
	syntheticTempNoiseStd = 2.0

	syntheticBasePrice     = 100.0 // R$/MWh marginal cost
	syntheticPriceAmp      = 50.0
	syntheticPriceNoiseStd = 20.0
)

// syntheticGroups are the subsystems the generator cycles through.
var syntheticGroups = []string{"SE/CO", "Sul", "NE", "Norte"}

// SyntheticSource generates a seeded hourly load series for demos and
// tests, so the full pipeline can run with no input file at all.
type SyntheticSource struct {
	cfg *contract.Config
}

var _ contract.DataSource = &SyntheticSource{} // Compile-time check

// NewSyntheticSource builds a generator from the validated config.
func NewSyntheticSource(cfg *contract.Config) *SyntheticSource {
	return &SyntheticSource{cfg: cfg}
}

// GetTrainingData produces cfg.SyntheticRows hourly observations
// starting at the top of 2023. The same seed yields the same series.
func (s *SyntheticSource) GetTrainingData(ctx context.Context) ([]schema.Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(s.cfg.Seed))
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	observations := make([]schema.Observation, s.cfg.SyntheticRows)
	for i := range observations {
		ts := start.Add(time.Duration(i) * time.Hour)
		annual := 2 * math.Pi * float64(ts.YearDay()) / 365
		daily := 2 * math.Pi * float64(ts.Hour()) / 24

		load := syntheticBaseLoad +
			syntheticAnnualAmp*math.Sin(annual) +
			syntheticDailyAmp*math.Sin(daily) +
			rng.NormFloat64()*syntheticNoiseStd
		if isWeekend(ts) {
			load += syntheticWeekendDip
		}

		observations[i] = schema.Observation{
			Timestamp: ts,
			Group:     syntheticGroups[i%len(syntheticGroups)],
			Target:    load,
			Exogenous: map[string]float64{
				"temperature": syntheticBaseTemp +
					syntheticTempAmp*math.Sin(annual) +
					rng.NormFloat64()*syntheticTempNoiseStd,
				"price": syntheticBasePrice +
					syntheticPriceAmp*math.Sin(annual) +
					rng.NormFloat64()*syntheticPriceNoiseStd,
			},
		}
	}
	return observations, nil
}

func isWeekend(ts time.Time) bool {
	day := ts.Weekday()
	return day == time.Saturday || day == time.Sunday
}
