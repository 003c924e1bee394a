package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedPub struct {
	errs   []error // per-call results, last repeats
	calls  int
	closed bool
}

func (p *scriptedPub) Publish(context.Context, string, []byte) error {
	p.calls++
	if len(p.errs) == 0 {
		return nil
	}
	err := p.errs[0]
	if len(p.errs) > 1 {
		p.errs = p.errs[1:]
	}
	return err
}

func (p *scriptedPub) Close() error {
	p.closed = true
	return nil
}

func TestRedialerRecoversFromStartupOutage(t *testing.T) {
	healthy := &scriptedPub{}
	dials := 0
	r := NewRedialer(func() (PublisherCloser, error) {
		dials++
		if dials == 1 {
			return nil, errors.New("broker unreachable")
		}
		return healthy, nil
	})

	// Broker down: the request fails, the publisher does not.
	err := r.Publish(context.Background(), OrderData, []byte("{}"))
	require.Error(t, err)

	// Broker back: the very next publish succeeds.
	require.NoError(t, r.Publish(context.Background(), OrderData, []byte("{}")))
	assert.Equal(t, 2, dials)
	assert.Equal(t, 1, healthy.calls)
}

func TestRedialerRetriesOnDeadConnection(t *testing.T) {
	dead := &scriptedPub{errs: []error{errors.New("channel/connection is not open")}}
	fresh := &scriptedPub{}
	conns := []*scriptedPub{dead, fresh}
	r := NewRedialer(func() (PublisherCloser, error) {
		p := conns[0]
		conns = conns[1:]
		return p, nil
	})

	require.NoError(t, r.Publish(context.Background(), RouteOptimization, []byte("{}")))
	assert.True(t, dead.closed, "dead connection torn down")
	assert.Equal(t, 1, fresh.calls)

	// The fresh connection is reused afterwards.
	require.NoError(t, r.Publish(context.Background(), RouteOptimization, []byte("{}")))
	assert.Equal(t, 2, fresh.calls)
}

func TestRedialerReturnsPublishErrorWhenRedialFails(t *testing.T) {
	pubErr := errors.New("channel closed")
	dead := &scriptedPub{errs: []error{pubErr}}
	dials := 0
	r := NewRedialer(func() (PublisherCloser, error) {
		dials++
		if dials == 1 {
			return dead, nil
		}
		return nil, errors.New("still down")
	})

	err := r.Publish(context.Background(), AgentWorkflow, []byte("{}"))
	assert.ErrorIs(t, err, pubErr)
	assert.True(t, dead.closed)

	// Next call dials again rather than reusing the torn-down connection.
	_ = r.Publish(context.Background(), AgentWorkflow, []byte("{}"))
	assert.Equal(t, 3, dials)
}

func TestRedialerDialsLazily(t *testing.T) {
	dials := 0
	r := NewRedialer(func() (PublisherCloser, error) {
		dials++
		return &scriptedPub{}, nil
	})
	assert.Zero(t, dials)
	require.NoError(t, r.Publish(context.Background(), DriverUpdates, []byte("{}")))
	assert.Equal(t, 1, dials)
	require.NoError(t, r.Close())
}
