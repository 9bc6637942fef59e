package hair

//Granularity is the element set a phase parallelizes over
type Granularity int

const (
	PerStrand Granularity = iota
	PerParticle
	Single
)

func (g Granularity) String() string {
	switch g {
	case PerStrand:
		return "per-strand"
	case PerParticle:
		return "per-particle"
	case Single:
		return "single"
	}
	return "unknown"
}

//Phase is one kernel invocation of a physics step. BarrierAfter makes the
//phase's writes visible before anything dispatched later reads them.
type Phase struct {
	ID           uint32
	Granularity  Granularity
	BarrierAfter bool
}

//GroupCount is the number of work groups of size local covering elements,
//a local size below one counts as one
func GroupCount(elements uint32, local uint32) uint32 {
	if local < 1 {
		local = 1
	}
	return uint32((uint64(elements) + uint64(local) - 1) / uint64(local))
}

//Dispatcher sizes and issues the phases of a physics step on a channel
type Dispatcher struct {
	ch     Channel
	local  uint32
	groups [3]uint32
}

func NewDispatcher(ch Channel) *Dispatcher {
	return &Dispatcher{ch: ch, local: ch.LocalGroupSize()[0], groups: [3]uint32{0, 0, 1}}
}

//Resize recomputes the group count of every granularity for live strands
func (d *Dispatcher) Resize(live int, particlesPerStrand int) {
	if live < 0 {
		live = 0
	}
	d.groups[PerStrand] = GroupCount(uint32(live), d.local)
	d.groups[PerParticle] = GroupCount(uint32(live*particlesPerStrand), d.local)
	d.groups[Single] = 1
}

func (d *Dispatcher) Groups(g Granularity) uint32 {
	if g < PerStrand || g > Single {
		return 0
	}
	return d.groups[g]
}

func (d *Dispatcher) LocalSize() uint32 { return d.local }

//Run selects the phase and dispatches it, zero groups included
func (d *Dispatcher) Run(p Phase) {
	d.ch.SetUint(ParamState, p.ID)
	d.ch.Dispatch(d.Groups(p.Granularity), 1, 1)
}

func (d *Dispatcher) Barrier() {
	d.ch.Barrier()
}

//Step runs phases in order, returning how many dispatches and barriers it issued
func (d *Dispatcher) Step(phases []Phase) (int, int) {
	barriers := 0
	for _, p := range phases {
		d.Run(p)
		if p.BarrierAfter {
			d.Barrier()
			barriers++
		}
	}
	return len(phases), barriers
}
