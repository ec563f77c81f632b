package source

import (
	"context"
	"errors"
	"testing"

	"go-stock-briefing/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	name    string
	payload interface{}
	err     error
	calls   int
}

func (s *stubSource) Name() string                             { return s.name }
func (s *stubSource) ActiveFor(*RunInput) bool                 { return true }
func (s *stubSource) TriggeredBy([]entity.RedFlag) bool        { return false }
func (s *stubSource) Fetch(context.Context, *RunInput) (interface{}, error) {
	s.calls++
	return s.payload, s.err
}

func TestFallbackSource_PrimarySucceeds(t *testing.T) {
	primary := &stubSource{name: "snapshot", payload: "primary"}
	secondary := &stubSource{name: "snapshot", payload: "secondary"}
	fallback := NewFallbackSource(primary, secondary)

	payload, err := fallback.Fetch(context.Background(), &RunInput{})

	require.NoError(t, err)
	assert.Equal(t, "primary", payload)
	assert.Zero(t, secondary.calls)
}

func TestFallbackSource_FallsBackOnFailure(t *testing.T) {
	primary := &stubSource{name: "snapshot", err: errors.New("endpoint down")}
	secondary := &stubSource{name: "snapshot", payload: "secondary"}
	fallback := NewFallbackSource(primary, secondary)

	payload, err := fallback.Fetch(context.Background(), &RunInput{})

	require.NoError(t, err)
	assert.Equal(t, "secondary", payload)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestFallbackSource_NoFallbackOnCanceledContext(t *testing.T) {
	primary := &stubSource{name: "snapshot", err: errors.New("endpoint down")}
	secondary := &stubSource{name: "snapshot", payload: "secondary"}
	fallback := NewFallbackSource(primary, secondary)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fallback.Fetch(ctx, &RunInput{})

	require.Error(t, err)
	assert.Zero(t, secondary.calls)
}
