package delivery

import (
	"context"

	"go-stock-briefing/internal/entity"
	"go-stock-briefing/pkg/logger"
)

// Sink delivers one assembled briefing artifact somewhere: the report
// directory, the run-history database, a chat channel.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, report *entity.RunReport, markdown string) error
}

// Fanout delivers to every configured sink. Every sink is best-effort: a
// failing sink is logged and never stops the others, and never fails the
// run. The file sink already rescues the report onto the output stream on
// its own, so by the time delivery completes the report always exists
// somewhere.
type Fanout struct {
	log   *logger.Logger
	sinks []Sink
}

// NewFanout creates a delivery fan-out over the given sinks.
func NewFanout(log *logger.Logger, sinks ...Sink) *Fanout {
	return &Fanout{log: log, sinks: sinks}
}

// Deliver pushes the report through every sink in order.
func (f *Fanout) Deliver(ctx context.Context, report *entity.RunReport, markdown string) {
	for _, sink := range f.sinks {
		if err := sink.Deliver(ctx, report, markdown); err != nil {
			f.log.Error("Delivery sink failed",
				logger.ErrorField(err),
				logger.StringField("sink", sink.Name()),
			)
		}
	}
}
