package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"comanda/internal/connections/database"
	"comanda/internal/domain"
	"comanda/internal/logger"
)

type ordersPG struct {
	db *database.Conn
	lg *logger.Logger
}

func NewOrdersPG(db *database.Conn, lg *logger.Logger) Orders {
	return &ordersPG{db: db, lg: lg}
}

func (r *ordersPG) Create(ctx context.Context, o *domain.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	o.Status = domain.StatusPending

	return withRetry(ctx, r.lg, "create_order", func(ctx context.Context) error {
		tx, err := r.db.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin: %w", err)
		}
		defer func() { _ = tx.Rollback(ctx) }()

		_, err = tx.Exec(ctx, `
			INSERT INTO orders (id, tenant_id, table_label, status, total, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $6)
		`, o.ID, o.TenantID, o.TableLabel, string(o.Status), o.Total.String(), o.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for i, item := range o.Items {
			if err := r.insertItem(ctx, tx, o.ID, i, item); err != nil {
				return fmt.Errorf("insert order item %s: %w", item.Name, err)
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		return nil
	})
}

// insertItem writes one line. On undefined_column the insert is resubmitted
// without the optional columns so a partially migrated schema still accepts
// the order.
func (r *ordersPG) insertItem(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, pos int, item domain.OrderLine) error {
	var opts []byte
	if len(item.Options) > 0 {
		opts, _ = json.Marshal(item.Options)
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO order_items (order_id, position, item_id, name, price, quantity, notes, station_id, selected_options)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, orderID, pos, item.ItemID, item.Name, item.Price.String(), item.Quantity, item.Notes, item.StationID, opts)
	if err == nil || !missingColumn(err) {
		return err
	}

	r.lg.Error("schema_mismatch_degraded_insert", err, map[string]any{"order_id": orderID.String(), "item_id": item.ItemID})
	_, err = tx.Exec(ctx, `
		INSERT INTO order_items (order_id, position, item_id, name, price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, orderID, pos, item.ItemID, item.Name, item.Price.String(), item.Quantity)
	return err
}

func (r *ordersPG) GetByID(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	var out domain.Order
	err := withRetry(ctx, r.lg, "get_order", func(ctx context.Context) error {
		orders, err := r.selectOrders(ctx, `WHERE o.id = $1`, id)
		if err != nil {
			return err
		}
		if len(orders) == 0 {
			return ErrNotFound
		}
		out = orders[0]
		return nil
	})
	return out, err
}

func (r *ordersPG) ListPending(ctx context.Context, tenant uuid.UUID) ([]domain.Order, error) {
	var out []domain.Order
	err := withRetry(ctx, r.lg, "list_pending", func(ctx context.Context) error {
		var err error
		out, err = r.selectOrders(ctx, `WHERE o.tenant_id = $1 AND o.status = 'pending'`, tenant)
		return err
	})
	return out, err
}

func (r *ordersPG) ListCompleted(ctx context.Context, tenant uuid.UUID, since time.Time) ([]domain.Order, error) {
	var out []domain.Order
	err := withRetry(ctx, r.lg, "list_completed", func(ctx context.Context) error {
		var err error
		out, err = r.selectOrders(ctx,
			`WHERE o.tenant_id = $1 AND o.status = 'completed' AND o.updated_at >= $2`, tenant, since)
		return err
	})
	return out, err
}

func (r *ordersPG) SetStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (domain.Order, bool, error) {
	if !status.Terminal() {
		return domain.Order{}, false, fmt.Errorf("illegal target status %q", status)
	}
	var (
		out     domain.Order
		changed bool
	)
	err := withRetry(ctx, r.lg, "set_status", func(ctx context.Context) error {
		tag, err := r.db.Exec(ctx, `
			UPDATE orders SET status = $2, updated_at = now()
			WHERE id = $1 AND status = 'pending'
		`, id, string(status))
		if err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		changed = tag.RowsAffected() == 1

		// Re-read either way: a zero-row update on an existing order is the
		// idempotent duplicate case, not an error.
		orders, err := r.selectOrders(ctx, `WHERE o.id = $1`, id)
		if err != nil {
			return err
		}
		if len(orders) == 0 {
			return ErrNotFound
		}
		out = orders[0]
		return nil
	})
	return out, changed, err
}

func (r *ordersPG) TogglePrepared(ctx context.Context, orderID uuid.UUID, itemID string, stationID uuid.UUID) (bool, bool, error) {
	var added, changed bool
	err := withRetry(ctx, r.lg, "toggle_prepared", func(ctx context.Context) error {
		tx, err := r.db.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin: %w", err)
		}
		defer func() { _ = tx.Rollback(ctx) }()

		var status string
		err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock order: %w", err)
		}
		if domain.OrderStatus(status).Terminal() {
			// prepared-state is frozen once the order leaves pending
			added, changed = false, false
			return tx.Commit(ctx)
		}

		tag, err := tx.Exec(ctx, `
			DELETE FROM prepared_marks WHERE order_id = $1 AND item_id = $2 AND station_id = $3
		`, orderID, itemID, stationID)
		if err != nil {
			return fmt.Errorf("delete mark: %w", err)
		}
		if tag.RowsAffected() == 0 {
			_, err = tx.Exec(ctx, `
				INSERT INTO prepared_marks (order_id, item_id, station_id, completed_at)
				VALUES ($1, $2, $3, now())
				ON CONFLICT DO NOTHING
			`, orderID, itemID, stationID)
			if err != nil {
				return fmt.Errorf("insert mark: %w", err)
			}
			added = true
		}
		changed = true
		return tx.Commit(ctx)
	})
	return added, changed, err
}

func (r *ordersPG) TakeoutLabels(ctx context.Context, tenant uuid.UUID) ([]string, error) {
	var labels []string
	err := withRetry(ctx, r.lg, "takeout_labels", func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, `
			SELECT table_label FROM orders WHERE tenant_id = $1 AND table_label LIKE 'LLEVAR-%'
		`, tenant)
		if err != nil {
			return err
		}
		defer rows.Close()
		labels = labels[:0]
		for rows.Next() {
			var lb string
			if err := rows.Scan(&lb); err != nil {
				return err
			}
			labels = append(labels, lb)
		}
		return rows.Err()
	})
	return labels, err
}

// selectOrders loads orders matching the WHERE clause together with their
// lines and prepared marks, newest first.
func (r *ordersPG) selectOrders(ctx context.Context, where string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT o.id, o.tenant_id, o.table_label, o.status, o.total::text, o.created_at
		FROM orders o `+where+` ORDER BY o.created_at DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var (
		orders []domain.Order
		index  = map[uuid.UUID]int{}
		ids    []uuid.UUID
	)
	for rows.Next() {
		var (
			o      domain.Order
			status string
			total  string
		)
		if err := rows.Scan(&o.ID, &o.TenantID, &o.TableLabel, &status, &total, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Status = domain.OrderStatus(status)
		o.Total = domain.ParseMoney(total)
		index[o.ID] = len(orders)
		ids = append(ids, o.ID)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}

	itemRows, err := r.db.Query(ctx, `
		SELECT order_id, item_id, name, price::text, quantity, notes, station_id, selected_options
		FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, position
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var (
			orderID uuid.UUID
			l       domain.OrderLine
			price   string
			notes   *string
			opts    []byte
		)
		if err := itemRows.Scan(&orderID, &l.ItemID, &l.Name, &price, &l.Quantity, &notes, &l.StationID, &opts); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		l.Price = domain.ParseMoney(price)
		if notes != nil {
			l.Notes = *notes
		}
		if len(opts) > 0 {
			_ = json.Unmarshal(opts, &l.Options)
		}
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, l)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	markRows, err := r.db.Query(ctx, `
		SELECT order_id, item_id, station_id, completed_at
		FROM prepared_marks WHERE order_id = ANY($1)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("select marks: %w", err)
	}
	defer markRows.Close()
	for markRows.Next() {
		var (
			orderID uuid.UUID
			m       domain.PreparedMark
		)
		if err := markRows.Scan(&orderID, &m.ItemID, &m.StationID, &m.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan mark: %w", err)
		}
		if i, ok := index[orderID]; ok {
			orders[i].Prepared = append(orders[i].Prepared, m)
		}
	}
	return orders, markRows.Err()
}
