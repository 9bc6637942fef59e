package gpu

import (
	"log/slog"

	"hairsim.com/hairsim/hair"
)

//Device pairs the hair compute program with storage buffer allocation
type Device struct {
	*ComputeProgram
	Storage
}

var _ hair.Device = (*Device)(nil)

func NewDevice(computePath string, logger *slog.Logger) (*Device, error) {
	prog, err := NewComputeProgram(computePath, logger)
	if err != nil {
		return nil, err
	}
	return &Device{ComputeProgram: prog}, nil
}
