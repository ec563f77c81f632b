package delivery

import (
	"context"
	"errors"
	"testing"

	"go-stock-briefing/internal/entity"

	"github.com/stretchr/testify/assert"
)

type scriptedSink struct {
	name  string
	err   error
	calls int
}

func (s *scriptedSink) Name() string { return s.name }

func (s *scriptedSink) Deliver(context.Context, *entity.RunReport, string) error {
	s.calls++
	return s.err
}

func TestFanout_SinkFailureNeverFailsTheRun(t *testing.T) {
	notify := &scriptedSink{name: "telegram", err: errors.New("telegram: 502 bad gateway")}
	history := &scriptedSink{name: "run_history"}
	fanout := NewFanout(testLogger(t), notify, history)

	fanout.Deliver(context.Background(), testReport(t), "# report")

	// The failing notification is logged and skipped; later sinks still run.
	assert.Equal(t, 1, notify.calls)
	assert.Equal(t, 1, history.calls)
}
