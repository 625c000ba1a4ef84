package mock

import (
	"time"

	"github.com/snowbench/snowbench/core"
)

type resultStreamConfig struct {
	nextSleep time.Duration
	nextErr   error
	header    core.Header
}

type ResultStreamOption func(*resultStreamConfig)

func ResultStreamWithNextSleep(s time.Duration) ResultStreamOption {
	return func(c *resultStreamConfig) {
		c.nextSleep = s
	}
}

func ResultStreamWithNextError(err error) ResultStreamOption {
	return func(c *resultStreamConfig) {
		c.nextErr = err
	}
}

func ResultStreamWithHeader(header core.Header) ResultStreamOption {
	return func(c *resultStreamConfig) {
		c.header = header
	}
}
