package ensemble

import (
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// postProcessLogger reports ErrPostProcessingSoft conditions. It is wrapped
// in a sampling core so a pathological input that keeps failing the same
// dictionary lookup cannot flood the log: at most one entry per tick is
// let through, the rest are counted and dropped.
var postProcessLogger = newSampledLogger()

func newSampledLogger() *zap.Logger {
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewSamplerWithOptions(
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), zapcore.WarnLevel),
		time.Hour, 1, 0,
	)
	return zap.New(core)
}

var postProcessLogOnce sync.Once

// logPostProcessingSoft logs only its first call in the process's
// lifetime; later calls are dropped.
func logPostProcessingSoft(step string, cause error) {
	postProcessLogOnce.Do(func() {
		postProcessLogger.Warn("post-processing sub-step skipped",
			zap.String("step", step),
			zap.Error(cause),
		)
	})
}
