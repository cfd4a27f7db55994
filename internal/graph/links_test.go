package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/pingraph/internal/ident"
)

func TestTrySpawnLink_Accepts(t *testing.T) {
	g := newTestGraph(t)
	_, _, ay := spawnXY(t, g, "A")
	_, bx, _ := spawnXY(t, g, "B")

	l, err := g.TrySpawnLink(ay.ID(), bx.ID())
	require.NoError(t, err)
	assert.Equal(t, ay.ID(), l.Source())
	assert.Equal(t, bx.ID(), l.Destination())
	assert.Equal(t, []ident.ID{l.ID()}, ay.Links())
	assert.Equal(t, []ident.ID{l.ID()}, bx.Links())
	assert.True(t, g.IsLinked(ay.ID(), bx.ID()))
	assert.True(t, g.IsLinked(bx.ID(), ay.ID()))
	requireValid(t, g)
}

func TestTrySpawnLink_NormalisesDirection(t *testing.T) {
	g := newTestGraph(t)
	_, _, ay := spawnXY(t, g, "A")
	_, bx, _ := spawnXY(t, g, "B")

	l, err := g.TrySpawnLink(bx.ID(), ay.ID())
	require.NoError(t, err)
	assert.Equal(t, ay.ID(), l.Source(), "the output pin is always the source")
	assert.Equal(t, bx.ID(), l.Destination())
}

func TestTrySpawnLink_Rejections(t *testing.T) {
	g := newTestGraph(t)
	a, ax, ay := spawnXY(t, g, "A")
	_, bx, by := spawnXY(t, g, "B")
	extra, err := g.SpawnPin(a.ID(), Input, "z", PinInt)
	require.NoError(t, err)
	_, err = g.TrySpawnLink(by.ID(), ax.ID())
	require.NoError(t, err)

	cases := []struct {
		name   string
		a, b   ident.ID
		reason error
	}{
		{"unknown pin", ay.ID(), 999, ErrNotFound},
		{"same node", ay.ID(), ax.ID(), ErrSameNode},
		{"same pin", ax.ID(), ax.ID(), ErrSameNode},
		{"two inputs", bx.ID(), extra.ID(), ErrSameKind},
		{"two outputs", ay.ID(), by.ID(), ErrSameKind},
		{"duplicate", by.ID(), ax.ID(), ErrDuplicateLink},
		{"duplicate reversed", ax.ID(), by.ID(), ErrDuplicateLink},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := g.LinkCount()
			l, err := g.TrySpawnLink(tc.a, tc.b)
			assert.Nil(t, l)
			require.ErrorIs(t, err, tc.reason)

			var rej *LinkRejection
			require.True(t, errors.As(err, &rej))
			assert.Equal(t, tc.a, rej.A)
			assert.Equal(t, tc.b, rej.B)
			assert.Equal(t, before, g.LinkCount(), "rejection must not change state")
		})
	}
	requireValid(t, g)
}

func TestTrySpawnLink_EvictsPriorInput(t *testing.T) {
	g := newTestGraph(t)
	_, _, ay := spawnXY(t, g, "A")
	_, _, cy := spawnXY(t, g, "C")
	_, bx, _ := spawnXY(t, g, "B")

	first, err := g.TrySpawnLink(ay.ID(), bx.ID())
	require.NoError(t, err)
	second, err := g.TrySpawnLink(cy.ID(), bx.ID())
	require.NoError(t, err)

	assert.Equal(t, []ident.ID{second.ID()}, bx.Links(), "exactly one link remains on the destination")
	_, ok := g.Link(first.ID())
	assert.False(t, ok)
	assert.Empty(t, ay.Links(), "evicted link is gone from the old source too")

	in, ok := g.IncomingLink(bx.ID())
	require.True(t, ok)
	assert.Same(t, second, in)
	requireValid(t, g)
}

func TestTrySpawnLink_FanOutUnlimited(t *testing.T) {
	g := newTestGraph(t)
	_, _, ay := spawnXY(t, g, "A")
	for range 5 {
		_, bx, _ := spawnXY(t, g, "B")
		_, err := g.TrySpawnLink(ay.ID(), bx.ID())
		require.NoError(t, err)
	}
	assert.Equal(t, 5, ay.LinkCount())
	requireValid(t, g)
}

func TestRemoveLink_Idempotent(t *testing.T) {
	g := newTestGraph(t)
	_, _, ay := spawnXY(t, g, "A")
	_, bx, _ := spawnXY(t, g, "B")
	l, err := g.TrySpawnLink(ay.ID(), bx.ID())
	require.NoError(t, err)

	assert.True(t, g.RemoveLink(l.ID()))
	assert.False(t, g.RemoveLink(l.ID()))
	assert.Empty(t, ay.Links())
	assert.Empty(t, bx.Links())
	assert.False(t, g.IsLinked(ay.ID(), bx.ID()))
	requireValid(t, g)
}

func TestIsLinked_UnknownPins(t *testing.T) {
	g := newTestGraph(t)
	assert.False(t, g.IsLinked(1, 2))
	_, ok := g.IncomingLink(1)
	assert.False(t, ok)
}

func TestLinkOther(t *testing.T) {
	l := &Link{id: 9, src: 1, dst: 2}
	assert.Equal(t, ident.ID(2), l.Other(1))
	assert.Equal(t, ident.ID(1), l.Other(2))
	assert.Equal(t, ident.Invalid, l.Other(3))
}

// TestLinkScenario walks the two-node scenario: one accepted link, a repeated
// link rejected as a duplicate, and a self-node link rejected.
func TestLinkScenario(t *testing.T) {
	g := newTestGraph(t)
	_, ax, ay := spawnXY(t, g, "A")
	_, bx, by := spawnXY(t, g, "B")

	_, err := g.TrySpawnLink(ay.ID(), bx.ID())
	require.NoError(t, err)

	back, err := g.TrySpawnLink(by.ID(), ax.ID())
	require.NoError(t, err)
	_, err = g.TrySpawnLink(by.ID(), ax.ID())
	assert.ErrorIs(t, err, ErrDuplicateLink)
	require.True(t, g.RemoveLink(back.ID()))

	_, err = g.TrySpawnLink(ay.ID(), ax.ID())
	assert.ErrorIs(t, err, ErrSameNode)

	links := g.Links()
	require.Len(t, links, 1)
	assert.Equal(t, ay.ID(), links[0].Source())
	assert.Equal(t, bx.ID(), links[0].Destination())
	requireValid(t, g)
}
