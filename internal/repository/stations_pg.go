package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"comanda/internal/connections/database"
	"comanda/internal/domain"
	"comanda/internal/logger"
)

type stationsPG struct {
	db *database.Conn
	lg *logger.Logger
}

func NewStationsPG(db *database.Conn, lg *logger.Logger) Stations {
	return &stationsPG{db: db, lg: lg}
}

func (r *stationsPG) Create(ctx context.Context, s *domain.Station) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return withRetry(ctx, r.lg, "create_station", func(ctx context.Context) error {
		_, err := r.db.Exec(ctx, `
			INSERT INTO kitchen_stations (id, tenant_id, name, color)
			VALUES ($1, $2, $3, $4)
		`, s.ID, s.TenantID, s.Name, s.Color)
		if err != nil {
			return fmt.Errorf("insert station: %w", err)
		}
		return nil
	})
}

func (r *stationsPG) List(ctx context.Context, tenant uuid.UUID) ([]domain.Station, error) {
	var out []domain.Station
	err := withRetry(ctx, r.lg, "list_stations", func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, `
			SELECT id, tenant_id, name, color FROM kitchen_stations WHERE tenant_id = $1 ORDER BY name
		`, tenant)
		if err != nil {
			return err
		}
		defer rows.Close()
		out = out[:0]
		for rows.Next() {
			var s domain.Station
			if err := rows.Scan(&s.ID, &s.TenantID, &s.Name, &s.Color); err != nil {
				return err
			}
			out = append(out, s)
		}
		return rows.Err()
	})
	return out, err
}

// Delete removes the station and clears station_id on menu items that
// referenced it. Historical order lines keep their station binding: orders
// are immutable snapshots at submission time.
func (r *stationsPG) Delete(ctx context.Context, tenant, id uuid.UUID) error {
	return withRetry(ctx, r.lg, "delete_station", func(ctx context.Context) error {
		tx, err := r.db.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin: %w", err)
		}
		defer func() { _ = tx.Rollback(ctx) }()

		_, err = tx.Exec(ctx, `
			UPDATE menu_items SET station_id = NULL WHERE tenant_id = $1 AND station_id = $2
		`, tenant, id)
		if err != nil {
			return fmt.Errorf("unassign menu items: %w", err)
		}

		tag, err := tx.Exec(ctx, `
			DELETE FROM kitchen_stations WHERE tenant_id = $1 AND id = $2
		`, tenant, id)
		if err != nil {
			return fmt.Errorf("delete station: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return tx.Commit(ctx)
	})
}
