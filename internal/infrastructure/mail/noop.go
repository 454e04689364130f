package mail

import (
	"context"

	"go.uber.org/zap"
)

// NoopGateway stands in when no SMTP host is configured. It logs the
// envelope and reports success so local runs exercise the full pipeline.
type NoopGateway struct {
	log *zap.Logger
}

func NewNoopGateway(log *zap.Logger) *NoopGateway {
	return &NoopGateway{log: log}
}

func (g *NoopGateway) Send(ctx context.Context, msg Message) bool {
	g.log.Info("email suppressed (no SMTP configured)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return true
}
