package hair

import "math"

//DefaultMaxJump is the largest change in frame time a physics step tolerates
const DefaultMaxJump = float32(0.1)

//StepGate decides whether a frame runs physics at all. A step cannot be cut
//short once issued, so stalls such as a debugger pause or a window drag are
//skipped whole instead of integrated with an oversized dt.
type StepGate struct {
	Enabled bool
	MaxJump float32
}

func (g StepGate) Allow(dt float32, lastDt float32) bool {
	if !g.Enabled {
		return false
	}
	if g.MaxJump > 0 && math.Abs(float64(dt-lastDt)) >= float64(g.MaxJump) {
		return false
	}
	return true
}

//Toggle flips Enabled and returns the new value
func (g *StepGate) Toggle() bool {
	g.Enabled = !g.Enabled
	return g.Enabled
}
