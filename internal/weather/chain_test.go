package weather

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainReturnsFirstNonEmptyAnswer(t *testing.T) {
	failing := &stubProvider{name: "a", err: errors.New("down")}
	empty := &stubProvider{name: "b"}
	good := &stubProvider{name: "c", readings: []Reading{reading("c", 0, 4)}}
	unused := &stubProvider{name: "d", readings: []Reading{reading("d", 0, 8)}}

	chain := NewChain(nil, failing, empty, good, unused)
	readings, err := chain.Lookup(context.Background(), 1, 2, day)
	require.NoError(t, err)
	require.Len(t, readings, 1)
	assert.Equal(t, "c", readings[0].Provider)

	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, empty.calls)
	assert.Equal(t, 1, good.calls)
	assert.Zero(t, unused.calls)
}

func TestChainJoinsErrorsWhenAllFail(t *testing.T) {
	down := errors.New("down")
	chain := NewChain(nil,
		&stubProvider{name: "a", err: down},
		&stubProvider{name: "b"},
	)

	readings, err := chain.Lookup(context.Background(), 1, 2, day)
	assert.Nil(t, readings)
	assert.ErrorIs(t, err, down)
	assert.ErrorIs(t, err, ErrNoConditions)
}

func TestChainWithoutProviders(t *testing.T) {
	_, err := NewChain(nil).Lookup(context.Background(), 1, 2, day)
	assert.Error(t, err)
}

func TestChainStopsWhenContextIsDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	prov := &stubProvider{name: "a", readings: []Reading{reading("a", 0, 1)}}
	_, err := NewChain(nil, prov).Lookup(ctx, 1, 2, day)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, prov.calls)
}

func TestChainName(t *testing.T) {
	chain := NewChain(nil, &stubProvider{name: "openmeteo"}, &stubProvider{name: "weatherapi"})
	assert.Equal(t, "chain(openmeteo,weatherapi)", chain.Name())
}
