package store

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	indexer "github.com/shruggr/singleton-indexer"
	"github.com/shruggr/singleton-indexer/puzzle"
)

// PGStore is the Postgres-backed Log. An append is a single guarded
// INSERT and a rollback runs in a transaction, so readers never see a
// partial mutation; a store-level mutex keeps the in-memory peak cache
// in step with the table.
type PGStore struct {
	db     *sql.DB
	logger zerolog.Logger

	getHeight *sql.Stmt
	insSpend  *sql.Stmt
	getSpends *sql.Stmt
	getPeak   *sql.Stmt
	delAbove  *sql.Stmt
	delOwner  *sql.Stmt

	mu    sync.Mutex
	peaks map[int32]int64 // -1 when the owner has no entries
}

func NewPGStore(db *sql.DB, logger zerolog.Logger) (*PGStore, error) {
	s := &PGStore{
		db:     db,
		logger: logger.With().Str("component", "spend_log").Logger(),
		peaks:  make(map[int32]int64),
	}
	var err error
	if s.getHeight, err = db.Prepare(`SELECT height
		FROM singleton_spends
		WHERE owner_id=$1 AND coin_id=$2`,
	); err != nil {
		return nil, err
	}
	if s.insSpend, err = db.Prepare(`INSERT INTO singleton_spends(
			owner_id, coin_id, height, parent_id, puzzle_hash, amount, puzzle_reveal, solution)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT(owner_id, coin_id) DO NOTHING`,
	); err != nil {
		return nil, err
	}
	if s.getSpends, err = db.Prepare(`SELECT height, parent_id, puzzle_hash, amount, puzzle_reveal, solution
		FROM singleton_spends
		WHERE owner_id=$1
		ORDER BY height ASC, seq ASC`,
	); err != nil {
		return nil, err
	}
	if s.getPeak, err = db.Prepare(`SELECT COALESCE(MAX(height), -1)
		FROM singleton_spends
		WHERE owner_id=$1`,
	); err != nil {
		return nil, err
	}
	if s.delAbove, err = db.Prepare(`DELETE FROM singleton_spends
		WHERE owner_id=$1 AND height>$2`,
	); err != nil {
		return nil, err
	}
	if s.delOwner, err = db.Prepare(`DELETE FROM singleton_spends
		WHERE owner_id=$1`,
	); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PGStore) AddSpend(ownerID int32, spend *indexer.Spend, height uint32) error {
	coinID := spend.Coin.ID()
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing int64
	err := s.getHeight.QueryRow(ownerID, coinID[:]).Scan(&existing)
	switch {
	case err == nil:
		if existing == int64(height) {
			return nil
		}
		return fmt.Errorf("%w: coin %s at %d, append at %d", ErrHeightConflict, coinID, existing, height)
	case err != sql.ErrNoRows:
		return err
	}

	peak, err := s.peakLocked(ownerID)
	if err != nil {
		return err
	}
	if peak >= 0 && int64(height) < peak {
		return fmt.Errorf("%w: peak %d, append at %d", ErrNonMonotonicHeight, peak, height)
	}

	_, err = s.insSpend.Exec(
		ownerID,
		coinID[:],
		int64(height),
		spend.Coin.ParentID[:],
		spend.Coin.PuzzleHash[:],
		int64(spend.Coin.Amount),
		spend.PuzzleReveal.Bytes(),
		spend.Solution.Bytes(),
	)
	if err != nil {
		return err
	}
	if int64(height) > peak {
		s.peaks[ownerID] = int64(height)
	}
	return nil
}

func (s *PGStore) SpendsForOwner(ownerID int32) ([]Entry, error) {
	rows, err := s.getSpends.Query(ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var height, amount int64
		var parent, ph, reveal, solution []byte
		if err := rows.Scan(&height, &parent, &ph, &amount, &reveal, &solution); err != nil {
			return nil, err
		}
		spend, err := rowToSpend(parent, ph, amount, reveal, solution)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Height: uint32(height), Spend: spend})
	}
	return entries, rows.Err()
}

func (s *PGStore) Exists(ownerID int32, coinID puzzle.Hash) (uint32, bool, error) {
	var height int64
	err := s.getHeight.QueryRow(ownerID, coinID[:]).Scan(&height)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return uint32(height), true, nil
}

func (s *PGStore) Rollback(target uint32, ownerID int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Stmt(s.delAbove).Exec(ownerID, int64(target))
	if err != nil {
		return err
	}
	var peak int64
	if err := tx.Stmt(s.getPeak).QueryRow(ownerID).Scan(&peak); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.peaks[ownerID] = peak
	if removed, err := res.RowsAffected(); err == nil && removed > 0 {
		s.logger.Info().
			Int32("owner", ownerID).
			Uint32("target", target).
			Int64("removed", removed).
			Msg("rolled back spend log")
	}
	return nil
}

func (s *PGStore) DeleteOwner(ownerID int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.delOwner.Exec(ownerID); err != nil {
		return err
	}
	delete(s.peaks, ownerID)
	return nil
}

// peakLocked returns the owner's highest height, -1 when empty. Caller
// holds s.mu.
func (s *PGStore) peakLocked(ownerID int32) (int64, error) {
	if peak, ok := s.peaks[ownerID]; ok {
		return peak, nil
	}
	var peak int64
	if err := s.getPeak.QueryRow(ownerID).Scan(&peak); err != nil {
		return 0, err
	}
	s.peaks[ownerID] = peak
	return peak, nil
}

func rowToSpend(parent, ph []byte, amount int64, reveal, solution []byte) (*indexer.Spend, error) {
	parentID, ok := puzzle.HashFromSlice(parent)
	if !ok {
		return nil, fmt.Errorf("stored parent_id is %d bytes", len(parent))
	}
	puzzleHash, ok := puzzle.HashFromSlice(ph)
	if !ok {
		return nil, fmt.Errorf("stored puzzle_hash is %d bytes", len(ph))
	}
	revealProg, err := puzzle.FromBytes(reveal)
	if err != nil {
		return nil, fmt.Errorf("stored puzzle_reveal: %w", err)
	}
	solutionProg, err := puzzle.FromBytes(solution)
	if err != nil {
		return nil, fmt.Errorf("stored solution: %w", err)
	}
	return &indexer.Spend{
		Coin: indexer.Coin{
			ParentID:   parentID,
			PuzzleHash: puzzleHash,
			Amount:     uint64(amount),
		},
		PuzzleReveal: revealProg,
		Solution:     solutionProg,
	}, nil
}
