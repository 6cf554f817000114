// README: Completed-booking sinks: JSON files on disk or the Postgres bookings table.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"

	"farebot/internal/types"
)

type Sink interface {
	Save(ctx context.Context, b Booking) error
}

// FileSink writes one booking_<id>.json per completed session.
type FileSink struct {
	dir string
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

func (f *FileSink) Path(id types.ID) string {
	return filepath.Join(f.dir, fmt.Sprintf("booking_%s.json", id))
}

// Save writes to a temporary file first so readers never see a partial booking.
func (f *FileSink) Save(_ context.Context, b Booking) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("create bookings dir: %w", err)
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, "booking_*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.Path(b.SessionID))
}

type PostgresSink struct {
	db *pgxpool.Pool
}

func NewPostgresSink(db *pgxpool.Pool) *PostgresSink {
	return &PostgresSink{db: db}
}

func (p *PostgresSink) Save(ctx context.Context, b Booking) error {
	tripJSON, err := json.Marshal(b.Trip)
	if err != nil {
		return err
	}
	travelerJSON, err := json.Marshal(b.Traveler)
	if err != nil {
		return err
	}
	transcriptJSON, err := json.Marshal(b.Transcript)
	if err != nil {
		return err
	}
	_, err = p.db.Exec(ctx, `
		INSERT INTO bookings (session_id, completed_at, trip, traveler, transcript)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id) DO UPDATE
		SET completed_at = EXCLUDED.completed_at, trip = EXCLUDED.trip,
			traveler = EXCLUDED.traveler, transcript = EXCLUDED.transcript
	`, string(b.SessionID), b.CompletedAt, tripJSON, travelerJSON, transcriptJSON)
	return err
}

// Get loads a stored booking, mostly for inspection and tests.
func (p *PostgresSink) Get(ctx context.Context, id types.ID) (Booking, error) {
	var b Booking
	var sid string
	var tripJSON, travelerJSON, transcriptJSON []byte
	err := p.db.QueryRow(ctx, `
		SELECT session_id, completed_at, trip, traveler, transcript
		FROM bookings WHERE session_id = $1
	`, string(id)).Scan(&sid, &b.CompletedAt, &tripJSON, &travelerJSON, &transcriptJSON)
	if err != nil {
		return Booking{}, err
	}
	b.SessionID = types.ID(sid)
	if err := json.Unmarshal(tripJSON, &b.Trip); err != nil {
		return Booking{}, err
	}
	if err := json.Unmarshal(travelerJSON, &b.Traveler); err != nil {
		return Booking{}, err
	}
	if err := json.Unmarshal(transcriptJSON, &b.Transcript); err != nil {
		return Booking{}, err
	}
	return b, nil
}
