package store

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func pgStore(t *testing.T) *PGStore {
	t.Helper()
	dsn := os.Getenv("POSTGRES")
	if dsn == "" {
		t.Skip("POSTGRES not set")
	}
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	migrations := os.Getenv("MIGRATIONS")
	if migrations == "" {
		migrations = "file://../migrations"
	}
	require.NoError(t, Migrate(db, migrations))

	s, err := NewPGStore(db, zerolog.Nop())
	require.NoError(t, err)
	for owner := int32(1); owner <= 2; owner++ {
		require.NoError(t, s.DeleteOwner(owner))
	}
	return s
}

func TestPGStoreScenario(t *testing.T) {
	runLogScenario(t, pgStore(t))
}

func TestPGStoreOwnerIsolation(t *testing.T) {
	runLogOwnerIsolation(t, pgStore(t))
}

func TestPGStorePeakSurvivesReopen(t *testing.T) {
	s := pgStore(t)
	spend := testSpend(0x90, 1)
	require.NoError(t, s.AddSpend(1, spend, 500))

	// a fresh store rebuilds the peak from the table
	s2, err := NewPGStore(s.db, zerolog.Nop())
	require.NoError(t, err)
	require.ErrorIs(t, s2.AddSpend(1, testSpend(0x91, 1), 400), ErrNonMonotonicHeight)

	entries, err := s2.SpendsForOwner(1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.True(t, spend.PuzzleReveal.Equal(entries[0].Spend.PuzzleReveal))
	require.Equal(t, spend.Coin, entries[0].Spend.Coin)
}
