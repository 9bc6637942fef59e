package telemetry

import "log/slog"

//Collector buffers step records, flushing them to an Output in batches and
//logging a Summary every summaryEvery records
type Collector struct {
	out          *Output
	log          *slog.Logger
	flushEvery   int
	summaryEvery int

	pending []StepRecord
	window  []StepRecord
	total   []StepRecord
	keepAll bool
}

//NewCollector returns a collector writing to out, which may be nil. keepAll
//retains every record for a final Summary.
func NewCollector(out *Output, logger *slog.Logger, flushEvery int, summaryEvery int, keepAll bool) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	if flushEvery < 1 {
		flushEvery = 256
	}
	return &Collector{
		out:          out,
		log:          logger,
		flushEvery:   flushEvery,
		summaryEvery: summaryEvery,
		keepAll:      keepAll,
	}
}

func (c *Collector) Add(r StepRecord) error {
	if c.keepAll {
		c.total = append(c.total, r)
	}
	if c.out != nil {
		c.pending = append(c.pending, r)
	}
	if c.summaryEvery > 0 {
		c.window = append(c.window, r)
		if len(c.window) >= c.summaryEvery {
			c.log.Info("step timings", "summary", Summarize(c.window))
			c.window = c.window[:0]
		}
	}
	if len(c.pending) >= c.flushEvery {
		return c.Flush()
	}
	return nil
}

func (c *Collector) Flush() error {
	err := c.out.WriteSteps(c.pending)
	c.pending = c.pending[:0]
	return err
}

//Total summarizes every record seen, empty unless keepAll was set
func (c *Collector) Total() Summary {
	return Summarize(c.total)
}

//Close flushes what is buffered and closes the output
func (c *Collector) Close() error {
	if err := c.Flush(); err != nil {
		c.out.Close()
		return err
	}
	return c.out.Close()
}
