package app

import (
	"hairsim.com/hairsim/config"
)

//applyReload pushes the simulation fields that differ between prev and next
//through the controls and returns their yaml keys. Untouched fields keep any
//value set at runtime, such as the post warmup friction or a gravity toggle.
//The running friction is friction_after_warmup; friction only seeds warmup.
func applyReload(c *Controls, prev *config.Config, next *config.Config) []string {
	var changed []string
	p, n := prev.Simulation, next.Simulation

	if n.Gravity != p.Gravity {
		c.SetGravity(n.Gravity)
		changed = append(changed, "gravity")
	}
	if n.WindDirection != p.WindDirection || n.WindStrength != p.WindStrength {
		s := next.Settings()
		c.hair.SetWind(s.Wind.Direction, s.Wind.Strength)
		changed = append(changed, "wind")
	}
	if n.FrictionAfterWarmup != p.FrictionAfterWarmup {
		c.hair.SetFrictionFactor(n.FrictionAfterWarmup)
		changed = append(changed, "friction_after_warmup")
	}
	if n.Damping != p.Damping {
		c.hair.SetVelocityDamping(n.Damping)
		changed = append(changed, "damping")
	}
	if next.Hair.CurlRadius != prev.Hair.CurlRadius {
		c.hair.SetCurlRadius(next.Hair.CurlRadius)
		changed = append(changed, "curl_radius")
	}
	if n.MaxFrameJump != p.MaxFrameJump {
		c.gate.MaxJump = n.MaxFrameJump
		changed = append(changed, "max_frame_jump")
	}
	return changed
}
