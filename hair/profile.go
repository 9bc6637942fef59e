package hair

import (
	"fmt"
	"strings"

	V "hairsim.com/hairsim/vector"
)

//Profile fixes the shape of the physics step at construction: which phases run,
//whether a volume grid exists and how curl radius maps to drawn line width
type Profile struct {
	Name        string
	Phases      []Phase
	Volume      *VolumeBounds
	StrandWidth func(curl float32) float32
}

const (
	ProfileVolumetric = "volumetric"
	ProfileClassic    = "classic"
)

//VolumetricProfile integrates forces per strand, particles and volume accumulation
//per particle, then applies volume friction and length constraints per strand
func VolumetricProfile() Profile {
	return Profile{
		Name: ProfileVolumetric,
		Phases: []Phase{
			{ID: 0, Granularity: PerStrand, BarrierAfter: true},
			{ID: 1, Granularity: PerParticle, BarrierAfter: true},
			{ID: 2, Granularity: PerStrand},
		},
		Volume: &VolumeBounds{
			Min:        V.Vec32{-2.5, -3.5, -2.5},
			Max:        V.Vec32{2.5, 1.5, 2.5},
			Resolution: 11,
		},
		StrandWidth: func(curl float32) float32 { return curl * 100 },
	}
}

//ClassicProfile has no volume grid and constrains strands in its particle phase
func ClassicProfile() Profile {
	return Profile{
		Name: ProfileClassic,
		Phases: []Phase{
			{ID: 0, Granularity: PerStrand, BarrierAfter: true},
			{ID: 1, Granularity: PerParticle},
		},
		StrandWidth: func(float32) float32 { return 1 },
	}
}

func ProfileByName(name string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ProfileVolumetric:
		return VolumetricProfile(), nil
	case ProfileClassic:
		return ClassicProfile(), nil
	}
	return Profile{}, fmt.Errorf("unknown hair profile %q", name)
}

//Validate rejects profiles whose phases could read memory a previous phase is
//still writing
func (p Profile) Validate() error {
	if len(p.Phases) == 0 {
		return ErrNoPhases
	}
	for i, ph := range p.Phases[:len(p.Phases)-1] {
		if !ph.BarrierAfter {
			return fmt.Errorf("%w: phase %d of %s", ErrMissingBarrier, i, p.Name)
		}
	}
	return nil
}

func (p Profile) width(curl float32) float32 {
	if p.StrandWidth == nil {
		return 1
	}
	return p.StrandWidth(curl)
}
