package main

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	indexer "github.com/shruggr/singleton-indexer"
	"github.com/shruggr/singleton-indexer/puzzle"
	"github.com/shruggr/singleton-indexer/store"
)

var log zerolog.Logger
var spends *store.PGStore

func init() {
	godotenv.Load("../.env")
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	db, err := sql.Open("postgres", os.Getenv("POSTGRES"))
	if err != nil {
		log.Fatal().Err(err).Msg("opening postgres")
	}
	migrations := os.Getenv("MIGRATIONS")
	if migrations == "" {
		migrations = "file://migrations"
	}
	if err = store.Migrate(db, migrations); err != nil {
		log.Fatal().Err(err).Msg("applying migrations")
	}
	spends, err = store.NewPGStore(db, log)
	if err != nil {
		log.Fatal().Err(err).Msg("preparing spend log")
	}
}

type spendResponse struct {
	Height     uint32             `json:"height"`
	CoinID     indexer.ByteString `json:"coin_id"`
	ParentID   indexer.ByteString `json:"parent_id"`
	PuzzleHash indexer.ByteString `json:"puzzle_hash"`
	Amount     uint64             `json:"amount"`
}

func main() {
	r := gin.Default()

	r.GET("/api/spends/:owner", func(c *gin.Context) {
		owner, err := parseOwner(c)
		if err != nil {
			c.String(http.StatusBadRequest, fmt.Sprintf("error: %s", err))
			return
		}
		entries, err := spends.SpendsForOwner(owner)
		if err != nil {
			c.String(http.StatusInternalServerError, fmt.Sprintf("error: %s", err))
			return
		}
		out := make([]spendResponse, len(entries))
		for i, e := range entries {
			id := e.Spend.Coin.ID()
			out[i] = spendResponse{
				Height:     e.Height,
				CoinID:     id[:],
				ParentID:   e.Spend.Coin.ParentID[:],
				PuzzleHash: e.Spend.Coin.PuzzleHash[:],
				Amount:     e.Spend.Coin.Amount,
			}
		}
		c.JSON(http.StatusOK, out)
	})

	r.GET("/api/spends/:owner/:coinid", func(c *gin.Context) {
		owner, err := parseOwner(c)
		if err != nil {
			c.String(http.StatusBadRequest, fmt.Sprintf("error: %s", err))
			return
		}
		raw, err := hex.DecodeString(c.Param("coinid"))
		if err != nil {
			c.String(http.StatusBadRequest, fmt.Sprintf("error: %s", err))
			return
		}
		coinID, ok := puzzle.HashFromSlice(raw)
		if !ok {
			c.String(http.StatusBadRequest, "error: coin id must be 32 bytes")
			return
		}
		height, exists, err := spends.Exists(owner, coinID)
		if err != nil {
			c.String(http.StatusInternalServerError, fmt.Sprintf("error: %s", err))
			return
		}
		if !exists {
			c.String(http.StatusNotFound, "not-found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"height": height})
	})

	r.POST("/api/rollback/:owner/:height", func(c *gin.Context) {
		owner, err := parseOwner(c)
		if err != nil {
			c.String(http.StatusBadRequest, fmt.Sprintf("error: %s", err))
			return
		}
		height, err := strconv.ParseUint(c.Param("height"), 10, 32)
		if err != nil {
			c.String(http.StatusBadRequest, fmt.Sprintf("error: %s", err))
			return
		}
		if err := spends.Rollback(uint32(height), owner); err != nil {
			c.String(http.StatusInternalServerError, fmt.Sprintf("error: %s", err))
			return
		}
		c.Status(http.StatusNoContent)
	})

	r.DELETE("/api/spends/:owner", func(c *gin.Context) {
		owner, err := parseOwner(c)
		if err != nil {
			c.String(http.StatusBadRequest, fmt.Sprintf("error: %s", err))
			return
		}
		if err := spends.DeleteOwner(owner); err != nil {
			c.String(http.StatusInternalServerError, fmt.Sprintf("error: %s", err))
			return
		}
		c.Status(http.StatusNoContent)
	})

	listen := os.Getenv("LISTEN")
	if listen == "" {
		listen = "0.0.0.0:8080"
	}
	r.Run(listen)
}

func parseOwner(c *gin.Context) (int32, error) {
	owner, err := strconv.ParseInt(c.Param("owner"), 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(owner), nil
}
