package email

import (
	"context"

	"github.com/ddanilov/authcore/internal/logger"
	"github.com/ddanilov/authcore/internal/model"
)

var _ model.EmailDispatcher = (*Log)(nil)

// Log writes token emails to the log instead of sending them. Development
// fallback selected when no Resend API key is configured.
type Log struct {
	logger *logger.Logger
}

func NewLog(logger *logger.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Send(_ context.Context, kind model.EmailKind, to string, token string) error {
	l.logger.Info("email dispatch skipped, logging token", "kind", kind, "to", to, "token", token)
	return nil
}
