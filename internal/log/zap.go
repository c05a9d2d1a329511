package log

import "go.uber.org/zap"

// ZapLogger keeps events in memory and mirrors each one to a zap logger.
type ZapLogger struct {
	MemoryLogger
	z *zap.Logger
}

// NewZapLogger wraps z. Fields already attached to z (match id, player id)
// are carried on every event line.
func NewZapLogger(z *zap.Logger) *ZapLogger {
	if z == nil {
		z = zap.NewNop()
	}
	return &ZapLogger{z: z}
}

func (l *ZapLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	l.z.Debug(event.Details,
		zap.String("event", event.Type.String()),
		zap.Int("round", event.Round),
		zap.Int("move", event.Move),
		zap.String("side", event.Side),
		zap.String("card", event.Card),
		zap.Int("cell", event.Cell),
	)
}
