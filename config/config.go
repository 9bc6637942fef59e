//Package config loads simulation settings from YAML layered over embedded defaults.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"hairsim.com/hairsim/geometry"
	"hairsim.com/hairsim/hair"
	V "hairsim.com/hairsim/vector"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Camera     CameraConfig     `yaml:"camera"`
	Hair       HairConfig       `yaml:"hair"`
	Colliders  []ColliderConfig `yaml:"colliders"`
	Simulation SimulationConfig `yaml:"simulation"`
	Controls   ControlsConfig   `yaml:"controls"`
	Shaders    ShaderConfig     `yaml:"shaders"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	//Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

type WindowConfig struct {
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Title   string `yaml:"title"`
	Samples int    `yaml:"samples"`
	VSync   bool   `yaml:"vsync"`
}

type CameraConfig struct {
	Position         [3]float32 `yaml:"position"`
	Target           [3]float32 `yaml:"target"`
	FOV              float32    `yaml:"fov"` //degrees, vertical
	Near             float32    `yaml:"near"`
	Far              float32    `yaml:"far"`
	MoveSpeed        float32    `yaml:"move_speed"`        //world units per second
	MouseSensitivity float32    `yaml:"mouse_sensitivity"` //radians per pixel
}

type HairConfig struct {
	Profile            string       `yaml:"profile"` //volumetric or classic
	MaxStrands         int          `yaml:"max_strands"`
	InitialStrands     int          `yaml:"initial_strands"`
	ParticlesPerStrand int          `yaml:"particles_per_strand"`
	Length             float32      `yaml:"length"`
	ParticleMass       float32      `yaml:"particle_mass"`
	CurlRadius         float32      `yaml:"curl_radius"`
	Seed               int64        `yaml:"seed"`
	Color              [3]float32   `yaml:"color"`
	Layout             LayoutConfig `yaml:"layout"`
	Volume             VolumeConfig `yaml:"volume"`
}

//LayoutConfig picks where strands are rooted. sphere_cap uses radius, max_z,
//min_y and growth; disk uses center, normal and radius.
type LayoutConfig struct {
	Kind   string     `yaml:"kind"`
	Radius float32    `yaml:"radius"`
	MaxZ   float32    `yaml:"max_z"`
	MinY   float32    `yaml:"min_y"`
	Growth [3]float32 `yaml:"growth"`
	Center [3]float32 `yaml:"center"`
	Normal [3]float32 `yaml:"normal"`
}

//VolumeConfig overrides the profile's volume bounds when resolution is set
type VolumeConfig struct {
	Min        [3]float32 `yaml:"min"`
	Max        [3]float32 `yaml:"max"`
	Resolution int        `yaml:"resolution"`
}

type ColliderConfig struct {
	Shape  string     `yaml:"shape"` //sphere or box
	Center [3]float32 `yaml:"center"`
	Size   [3]float32 `yaml:"size"` //radius per axis for spheres, half extents for boxes
}

type SimulationConfig struct {
	Enabled             bool       `yaml:"enabled"`
	Gravity             float32    `yaml:"gravity"`
	WindDirection       [3]float32 `yaml:"wind_direction"` //zero lets the kernel vary it
	WindStrength        float32    `yaml:"wind_strength"`
	Friction            float32    `yaml:"friction"`
	Damping             float32    `yaml:"damping"`
	MaxFrameJump        float32    `yaml:"max_frame_jump"` //seconds, 0 disables the check
	WarmupSteps         int        `yaml:"warmup_steps"`
	WarmupDT            float32    `yaml:"warmup_dt"`
	FrictionAfterWarmup float32    `yaml:"friction_after_warmup"`
}

type ControlsConfig struct {
	StrandStep   int     `yaml:"strand_step"`
	CurlStep     float32 `yaml:"curl_step"`
	DampingStep  float32 `yaml:"damping_step"`
	FrictionStep float32 `yaml:"friction_step"`
}

type ShaderConfig struct {
	Dir            string `yaml:"dir"`
	Compute        string `yaml:"compute"`
	StrandVertex   string `yaml:"strand_vertex"`
	StrandFragment string `yaml:"strand_fragment"`
	MeshVertex     string `yaml:"mesh_vertex"`
	MeshFragment   string `yaml:"mesh_fragment"`
}

type TelemetryConfig struct {
	OutputDir    string `yaml:"output_dir"` //empty disables csv output
	FlushEvery   int    `yaml:"flush_every"`
	SummaryEvery int    `yaml:"summary_every"` //frames between logged summaries, 0 disables
}

type DerivedConfig struct {
	ComputePath        string
	StrandVertexPath   string
	StrandFragmentPath string
	MeshVertexPath     string
	MeshFragmentPath   string
	Aspect             float32
	SegmentLength      float32
}

//Load reads path over the embedded defaults. Only fields present in the file
//override; an empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

func (c *Config) computeDerived() {
	dir := c.Shaders.Dir
	c.Derived.ComputePath = filepath.Join(dir, c.Shaders.Compute)
	c.Derived.StrandVertexPath = filepath.Join(dir, c.Shaders.StrandVertex)
	c.Derived.StrandFragmentPath = filepath.Join(dir, c.Shaders.StrandFragment)
	c.Derived.MeshVertexPath = filepath.Join(dir, c.Shaders.MeshVertex)
	c.Derived.MeshFragmentPath = filepath.Join(dir, c.Shaders.MeshFragment)

	c.Derived.Aspect = 1
	if c.Window.Height > 0 {
		c.Derived.Aspect = float32(c.Window.Width) / float32(c.Window.Height)
	}

	pps := max(c.Hair.ParticlesPerStrand, 2)
	c.Derived.SegmentLength = c.Hair.Length / float32(pps-1)
}

//WriteYAML writes the configuration to path, or to stdout when path is empty or "-"
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if path == "" || path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

//Settings returns the simulation section as facade settings
func (c *Config) Settings() hair.Settings {
	s := c.Simulation
	return hair.Settings{
		Gravity:    s.Gravity,
		Wind:       hair.Wind{Direction: mgl32.Vec3(s.WindDirection), Strength: s.WindStrength},
		Friction:   s.Friction,
		Damping:    s.Damping,
		CurlRadius: c.Hair.CurlRadius,
	}
}

func (c *Config) Layout() (hair.Layout, error) {
	l := c.Hair.Layout
	switch strings.ToLower(l.Kind) {
	case "", "sphere_cap":
		return hair.SphereCap{Radius: l.Radius, MaxZ: l.MaxZ, MinY: l.MinY, Growth: V.Vec32(l.Growth)}, nil
	case "disk":
		return hair.Disk{Center: V.Vec32(l.Center), Normal: V.Vec32(l.Normal), Radius: l.Radius}, nil
	}
	return nil, fmt.Errorf("unknown hair layout %q", l.Kind)
}

//HairOptions assembles construction options for the facade
func (c *Config) HairOptions(logger *slog.Logger) (hair.Options, error) {
	profile, err := hair.ProfileByName(c.Hair.Profile)
	if err != nil {
		return hair.Options{}, err
	}
	if v := c.Hair.Volume; v.Resolution > 0 && profile.Volume != nil {
		profile.Volume = &hair.VolumeBounds{Min: V.Vec32(v.Min), Max: V.Vec32(v.Max), Resolution: v.Resolution}
	}
	layout, err := c.Layout()
	if err != nil {
		return hair.Options{}, err
	}
	settings := c.Settings()
	return hair.Options{
		MaxStrands:         c.Hair.MaxStrands,
		InitialStrands:     c.Hair.InitialStrands,
		ParticlesPerStrand: c.Hair.ParticlesPerStrand,
		Length:             c.Hair.Length,
		ParticleMass:       c.Hair.ParticleMass,
		StrandStep:         c.Controls.StrandStep,
		CurlStep:           c.Controls.CurlStep,
		DampingStep:        c.Controls.DampingStep,
		Profile:            profile,
		Layout:             layout,
		Seed:               c.Hair.Seed,
		Settings:           &settings,
		Logger:             logger,
	}, nil
}

//BuildColliders creates the configured collision proxies
func (c *Config) BuildColliders() ([]*geometry.Primitive, error) {
	out := make([]*geometry.Primitive, 0, len(c.Colliders))
	for i, cc := range c.Colliders {
		center := mgl32.Vec3(cc.Center)
		size := mgl32.Vec3(cc.Size)
		switch strings.ToLower(cc.Shape) {
		case "sphere":
			p := geometry.NewSphere(1, center)
			p.Scale(size)
			out = append(out, p)
		case "box":
			out = append(out, geometry.NewBox(size, center))
		default:
			return nil, fmt.Errorf("collider %d: unknown shape %q", i, cc.Shape)
		}
	}
	return out, nil
}
