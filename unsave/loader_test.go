package unsave

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchLoader_DirectAndWrappedAreEquivalent(t *testing.T) {
	a, b, c := savedPost("a"), unsavedPost("b"), savedPost("c")

	direct := &fakeFeed{cycles: [][]Node{{PostNode(a), PostNode(b), PostNode(c)}}}
	wrapped := &fakeFeed{cycles: [][]Node{{WrapperNode(a, b), WrapperNode(c)}}}

	gotDirect, err := NewBatchLoader(direct).LoadBatch(context.Background())
	require.NoError(t, err)
	gotWrapped, err := NewBatchLoader(wrapped).LoadBatch(context.Background())
	require.NoError(t, err)

	want := []PostHandle{a, b, c}
	assert.Equal(t, want, gotDirect)
	assert.Equal(t, want, gotWrapped)
}

func TestBatchLoader_MixedKeepsPageOrder(t *testing.T) {
	a, b, c, d := savedPost("a"), savedPost("b"), savedPost("c"), savedPost("d")
	feed := &fakeFeed{cycles: [][]Node{{
		PostNode(a),
		{Kind: NodeOther},
		WrapperNode(b, nil, c),
		WrapperNode(),
		PostNode(d),
		{Kind: NodePost},
	}}}

	got, err := NewBatchLoader(feed).LoadBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []PostHandle{a, b, c, d}, got)
}

func TestBatchLoader_EmptyIsNotAnError(t *testing.T) {
	got, err := NewBatchLoader(&fakeFeed{}).LoadBatch(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestBatchLoader_RecomputesEveryCall(t *testing.T) {
	a, b := savedPost("a"), savedPost("b")
	feed := &fakeFeed{cycles: [][]Node{{PostNode(a)}, {WrapperNode(b)}}}
	loader := NewBatchLoader(feed)

	first, err := loader.LoadBatch(context.Background())
	require.NoError(t, err)
	second, err := loader.LoadBatch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []PostHandle{a}, first)
	assert.Equal(t, []PostHandle{b}, second)
	assert.Equal(t, 2, feed.loads)
}

func TestBatchLoader_PropagatesFeedError(t *testing.T) {
	feed := &fakeFeed{loadErr: map[int]error{0: errFeedRootMissing}}

	_, err := NewBatchLoader(feed).LoadBatch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errFeedRootMissing))
}
