// README: Airport reference data loaded from an OurAirports CSV export or a Postgres table.
package location

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrMissingColumn = errors.New("airports csv: missing column")

var csvColumns = []string{"iata_code", "name", "municipality", "type", "scheduled_service"}

// ReadCSV reads OurAirports rows. Columns are located by header name, so extra columns are fine.
func ReadCSV(r io.Reader) ([]Hub, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, c := range csvColumns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}

	var hubs []Hub
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		col := func(name string) string {
			i := idx[name]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		hubs = append(hubs, Hub{
			Code:             col("iata_code"),
			Name:             col("name"),
			Municipality:     col("municipality"),
			Category:         Category(col("type")),
			ScheduledService: col("scheduled_service") == "yes",
		})
	}
	return hubs, nil
}

func LoadFile(path string) ([]Hub, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// Open builds a resolver from load. It never returns nil: when load fails the resolver is
// empty and reports every place as not found, and the error is returned for logging.
func Open(load func() ([]Hub, error)) (*Service, error) {
	hubs, err := load()
	if err != nil {
		return NewService(nil), err
	}
	return NewService(hubs), nil
}

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Load reads every scheduled airport with a code from the airports table.
func (s *Store) Load(ctx context.Context) ([]Hub, error) {
	rows, err := s.db.Query(ctx, `
		SELECT iata_code, name, COALESCE(municipality, ''), type, scheduled_service
		FROM airports
		WHERE iata_code <> '' AND scheduled_service
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hubs []Hub
	for rows.Next() {
		var h Hub
		var category string
		if err := rows.Scan(&h.Code, &h.Name, &h.Municipality, &category, &h.ScheduledService); err != nil {
			return nil, err
		}
		h.Category = Category(category)
		hubs = append(hubs, h)
	}
	return hubs, rows.Err()
}

// Import replaces the contents of the airports table with hubs.
func (s *Store) Import(ctx context.Context, hubs []Hub) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM airports`); err != nil {
		return err
	}
	for _, h := range hubs {
		if h.Code == "" {
			continue
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO airports (iata_code, name, municipality, type, scheduled_service)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (iata_code) DO UPDATE
			SET name = EXCLUDED.name, municipality = EXCLUDED.municipality,
				type = EXCLUDED.type, scheduled_service = EXCLUDED.scheduled_service
		`, h.Code, h.Name, h.Municipality, string(h.Category), h.ScheduledService)
		if err != nil {
			return fmt.Errorf("insert %s: %w", h.Code, err)
		}
	}
	return tx.Commit(ctx)
}
