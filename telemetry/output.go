package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

//Output appends step records to steps.csv in an output directory
type Output struct {
	dir           string
	stepsFile     *os.File
	headerWritten bool
}

//NewOutput creates dir and steps.csv in it. Returns nil if dir is empty (output disabled).
func NewOutput(dir string) (*Output, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "steps.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating steps.csv: %w", err)
	}
	return &Output{dir: dir, stepsFile: f}, nil
}

func (o *Output) Dir() string {
	if o == nil {
		return ""
	}
	return o.dir
}

//WriteSteps appends records, the header goes out with the first batch
func (o *Output) WriteSteps(records []StepRecord) error {
	if o == nil || len(records) == 0 {
		return nil
	}
	if !o.headerWritten {
		if err := gocsv.Marshal(records, o.stepsFile); err != nil {
			return fmt.Errorf("writing steps: %w", err)
		}
		o.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, o.stepsFile); err != nil {
		return fmt.Errorf("writing steps: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	if o == nil {
		return nil
	}
	return o.stepsFile.Close()
}
