package scheduler

import "time"

// Config controls scan intervals and batch sizes.
type Config struct {
	RunInterval time.Duration
	BatchSize   int
	JobTimeout  time.Duration
}

func DefaultConfig() Config {
	return Config{
		RunInterval: 15 * time.Minute,
		BatchSize:   100,
		JobTimeout:  time.Minute,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.RunInterval <= 0 {
		c.RunInterval = def.RunInterval
	}
	if c.BatchSize <= 0 {
		c.BatchSize = def.BatchSize
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = def.JobTimeout
	}
	return c
}

func ProvideConfig() Config {
	return DefaultConfig()
}
