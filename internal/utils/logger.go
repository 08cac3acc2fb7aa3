package utils

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide logger. InitLogger configures it once at
// startup; packages log through it directly.
var Logger = logrus.New()

// serviceTag prefixes every entry with the service name so merged
// container logs stay attributable.
type serviceTag struct {
	name string
}

func (h *serviceTag) Levels() []logrus.Level { return logrus.AllLevels }

func (h *serviceTag) Fire(entry *logrus.Entry) error {
	entry.Message = "[" + h.name + "] " + entry.Message
	return nil
}

// InitLogger wires the logger to stdout with a full-timestamp text
// format. LOG_LEVEL from the environment selects verbosity, defaulting
// to info.
func InitLogger(serviceName string) {
	Logger.SetOutput(os.Stdout)

	levelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))
	if levelStr == "" {
		levelStr = "info"
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		Logger.Warnf("Invalid LOG_LEVEL '%s', defaulting to INFO", levelStr)
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)

	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	Logger.AddHook(&serviceTag{name: serviceName})
}
