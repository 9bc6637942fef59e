//Package telemetry records per step dispatch statistics, writes them as CSV and
//summarizes step timings.
package telemetry

import (
	"hairsim.com/hairsim/hair"
)

//StepRecord is one frame of the simulation loop, flat for CSV export
type StepRecord struct {
	Frame          uint64 `csv:"frame"`
	LiveStrands    int    `csv:"live_strands"`
	StrandGroups   uint32 `csv:"strand_groups"`
	ParticleGroups uint32 `csv:"particle_groups"`
	Phases         int    `csv:"phases"`
	Barriers       int    `csv:"barriers"`
	Flushed        bool   `csv:"flushed"`
	Skipped        bool   `csv:"skipped"`
	StepMicros     int64  `csv:"step_us"`
}

//FromReport converts the facade's report of a step that ran
func FromReport(r hair.StepReport) StepRecord {
	return StepRecord{
		Frame:          r.Frame,
		LiveStrands:    r.LiveStrands,
		StrandGroups:   r.StrandGroups,
		ParticleGroups: r.ParticleGroups,
		Phases:         r.Phases,
		Barriers:       r.Barriers,
		Flushed:        r.Flushed,
		StepMicros:     r.Duration.Microseconds(),
	}
}

//Skipped records a frame the step gate held back
func Skipped(frame uint64, live int) StepRecord {
	return StepRecord{Frame: frame, LiveStrands: live, Skipped: true}
}
