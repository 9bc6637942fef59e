package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

//Summary aggregates step timings over a window of records
type Summary struct {
	Frames  int
	Skipped int
	Flushes int
	MeanUS  float64
	StdUS   float64
	P50US   float64
	P95US   float64
	MaxUS   float64
}

//Summarize computes timing statistics over the steps that ran
func Summarize(records []StepRecord) Summary {
	s := Summary{Frames: len(records)}
	us := make([]float64, 0, len(records))
	for _, r := range records {
		if r.Skipped {
			s.Skipped++
			continue
		}
		if r.Flushed {
			s.Flushes++
		}
		us = append(us, float64(r.StepMicros))
	}
	if len(us) == 0 {
		return s
	}

	sort.Float64s(us)
	s.MeanUS, s.StdUS = stat.MeanStdDev(us, nil)
	s.P50US = stat.Quantile(0.5, stat.Empirical, us, nil)
	s.P95US = stat.Quantile(0.95, stat.Empirical, us, nil)
	s.MaxUS = us[len(us)-1]
	return s
}

//LogValue implements slog.LogValuer for structured logging.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("frames", s.Frames),
		slog.Int("skipped", s.Skipped),
		slog.Int("flushes", s.Flushes),
		slog.Float64("mean_us", s.MeanUS),
		slog.Float64("std_us", s.StdUS),
		slog.Float64("p50_us", s.P50US),
		slog.Float64("p95_us", s.P95US),
		slog.Float64("max_us", s.MaxUS),
	)
}
