package logging

import (
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu   sync.Mutex
	base *logrus.Logger
)

// Init configures the process logger. Unknown levels fall back to info.
func Init(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(parsed)

	mu.Lock()
	base = logger
	mu.Unlock()
}

// Component returns a logger entry tagged with the component name.
func Component(name string) *logrus.Entry {
	mu.Lock()
	logger := base
	mu.Unlock()
	if logger == nil {
		Init("info")
		mu.Lock()
		logger = base
		mu.Unlock()
	}
	return logger.WithField("component", name)
}
