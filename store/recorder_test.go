package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ipld/go-ipld-proofs/internal/memstore"
	"github.com/ipld/go-ipld-proofs/store"
	"github.com/ipld/go-ipld-proofs/testutil"
)

func TestRecorderTracksPuts(t *testing.T) {
	ctx := context.Background()
	base := memstore.New()
	rec := store.New(base)

	c := testutil.PutNode(t, ctx, rec, testutil.String("hello"))
	require.True(t, rec.Has(c))

	data, ok := rec.Witnessed(c)
	require.True(t, ok)

	stored, found, err := base.GetBytes(ctx, c)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, stored, data)
}

func TestRecorderTracksGets(t *testing.T) {
	ctx := context.Background()
	base := memstore.New()
	c, err := base.Put(ctx, testutil.Encode(t, testutil.Int(42)))
	require.NoError(t, err)

	rec := store.New(base)
	require.False(t, rec.Has(c))

	_, found, err := rec.GetBytes(ctx, c)
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, rec.Has(c))
}

func TestRecorderGetMissIsNotWitnessed(t *testing.T) {
	ctx := context.Background()
	rec := store.New(memstore.New())

	missing := testutil.CIDOf(t, []byte("never stored"))
	_, found, err := rec.GetBytes(ctx, missing)
	require.NoError(t, err)
	require.False(t, found)
	require.False(t, rec.Has(missing))
}

func TestRecorderFirstWriterWins(t *testing.T) {
	ctx := context.Background()
	rec := store.New(memstore.New())

	data := testutil.Encode(t, testutil.String("original"))
	c, err := rec.Put(ctx, data)
	require.NoError(t, err)

	first, _ := rec.Witnessed(c)

	// A second PutRaw under the same CID (identical bytes here, but the
	// witness table keys purely on CID) must not disturb the first
	// observation.
	_, err = rec.Put(ctx, data)
	require.NoError(t, err)

	second, _ := rec.Witnessed(c)
	require.Equal(t, first, second)
}

func TestRecorderRawKVBypassesWitnessTable(t *testing.T) {
	ctx := context.Background()
	rec := store.New(memstore.New())

	require.NoError(t, rec.Write(ctx, []byte("k"), []byte("v")))
	data, found, err := rec.Read(ctx, []byte("k"))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("v"), data)

	require.NoError(t, rec.BorrowWitness(func(entries []store.WitnessEntry) error {
		require.Empty(t, entries)
		return nil
	}))
}

func TestRecorderMutationDuringBorrowPanics(t *testing.T) {
	ctx := context.Background()
	rec := store.New(memstore.New())
	_, err := rec.Put(ctx, testutil.Encode(t, testutil.Int(1)))
	require.NoError(t, err)

	require.Panics(t, func() {
		_ = rec.BorrowWitness(func(entries []store.WitnessEntry) error {
			_, _ = rec.Put(ctx, testutil.Encode(t, testutil.Int(2)))
			return nil
		})
	})
}

func TestRecorderNestedBorrowPanics(t *testing.T) {
	rec := store.New(memstore.New())
	require.Panics(t, func() {
		_ = rec.BorrowWitness(func(entries []store.WitnessEntry) error {
			return rec.BorrowWitness(func(entries []store.WitnessEntry) error {
				return nil
			})
		})
	})
}
