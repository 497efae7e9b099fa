package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/sirupsen/logrus"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/salojoakim/supplierpriceautomation/infrastructure/database/sqldb"
	"github.com/salojoakim/supplierpriceautomation/internal/domain"
)

const (
	snapshotsTable = "price_snapshots"
	pointersTable  = "snapshot_pointers"

	idLength   = 12
	characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	pqUniqueViolation = "23505"
)

type sqlSnapshotRepository struct {
	conn sqldb.Conn
	now  func() time.Time
}

// NewSQLSnapshotRepository usa as tabelas price_snapshots e snapshot_pointers (ver sqldb.EnsureSchema)
func NewSQLSnapshotRepository(conn sqldb.Conn) SnapshotRepository {
	return &sqlSnapshotRepository{
		conn: conn,
		now:  time.Now,
	}
}

func (r *sqlSnapshotRepository) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(r.conn.Placeholder())
}

func (r *sqlSnapshotRepository) Put(ctx context.Context, date time.Time, rows []domain.PriceRow) (*domain.Snapshot, error) {
	snapshot, err := domain.NewSnapshot(date, rows, r.now())
	if err != nil {
		return nil, err
	}

	data, err := encodeSnapshot(snapshot)
	if err != nil {
		return nil, err
	}

	key := snapshot.DateString()

	id, err := gonanoid.Generate(characters, idLength)
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar id do snapshot: %w", err)
	}

	err = r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		exists, err := r.exists(ctx, tx, key)
		if err != nil {
			return err
		}
		if exists {
			return &domain.DuplicateSnapshotError{Date: key}
		}

		query, args, err := r.builder().
			Insert(snapshotsTable).
			Columns("id", "snapshot_date", "row_count", "rows_json", "created_at").
			Values(id, key, snapshot.RowCount(), string(data), snapshot.CreatedAt().Format(time.RFC3339Nano)).
			ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			if isUniqueViolation(err) {
				return &domain.DuplicateSnapshotError{Date: key}
			}
			return fmt.Errorf("erro ao inserir snapshot: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"id":   id,
		"date": key,
		"rows": snapshot.RowCount(),
	}).Info("Snapshot gravado no banco")

	return snapshot, nil
}

func (r *sqlSnapshotRepository) Get(ctx context.Context, date time.Time) (*domain.Snapshot, error) {
	return r.getByKey(ctx, r.conn, dateKey(date))
}

func (r *sqlSnapshotRepository) getByKey(ctx context.Context, q sqldb.Queryer, key string) (*domain.Snapshot, error) {
	query, args, err := r.builder().
		Select("snapshot_date", "row_count", "rows_json").
		From(snapshotsTable).
		Where(squirrel.Eq{"snapshot_date": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.scanSnapshot(q.QueryRowContext(ctx, query, args...))
}

func (r *sqlSnapshotRepository) scanSnapshot(row *sql.Row) (*domain.Snapshot, error) {
	var (
		key      string
		rowCount int
		payload  string
	)

	if err := row.Scan(&key, &rowCount, &payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear snapshot: %w", err)
	}

	location := snapshotsTable + "/" + key

	snapshot, err := decodeSnapshot([]byte(payload), key, location)
	if err != nil {
		return nil, err
	}

	if snapshot.RowCount() != rowCount {
		return nil, &domain.CorruptSnapshotError{
			Date:     key,
			Location: location,
			Err:      fmt.Errorf("row_count %d difere de %d linhas", rowCount, snapshot.RowCount()),
		}
	}

	return snapshot, nil
}

func (r *sqlSnapshotRepository) GetLatestBefore(ctx context.Context, date time.Time) (*domain.Snapshot, error) {
	query, args, err := r.builder().
		Select("snapshot_date", "row_count", "rows_json").
		From(snapshotsTable).
		Where(squirrel.Lt{"snapshot_date": dateKey(date)}).
		OrderBy("snapshot_date DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.scanSnapshot(r.conn.QueryRowContext(ctx, query, args...))
}

func (r *sqlSnapshotRepository) GetLatest(ctx context.Context) (*domain.Snapshot, error) {
	key, err := r.readPointer(ctx, r.conn)
	if err != nil || key == "" {
		return nil, err
	}

	snapshot, err := r.getByKey(ctx, r.conn, key)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, &domain.CorruptSnapshotError{
			Date:     key,
			Location: pointersTable + "/" + latestPointer,
			Err:      domain.ErrSnapshotNotFound,
		}
	}

	return snapshot, nil
}

func (r *sqlSnapshotRepository) ListDates(ctx context.Context) ([]time.Time, error) {
	query, args, err := r.builder().
		Select("snapshot_date").
		From(snapshotsTable).
		OrderBy("snapshot_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	dates := make([]time.Time, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("erro ao escanear data: %w", err)
		}
		date, err := domain.ParseCalendarDate(key)
		if err != nil {
			return nil, &domain.CorruptSnapshotError{Date: key, Location: snapshotsTable, Err: err}
		}
		dates = append(dates, date)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return dates, nil
}

func (r *sqlSnapshotRepository) Promote(ctx context.Context, snapshot *domain.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("%w: snapshot nulo", domain.ErrSnapshotNotFound)
	}

	key := snapshot.DateString()

	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		exists, err := r.exists(ctx, tx, key)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, key)
		}

		current, err := r.readPointer(ctx, tx)
		if err != nil {
			return err
		}
		if current > key {
			return fmt.Errorf("%w: latest=%s, pedido=%s", domain.ErrPromoteBackwards, current, key)
		}

		query, args, err := r.builder().
			Insert(pointersTable).
			Columns("name", "snapshot_date", "updated_at").
			Values(latestPointer, key, r.now().UTC().Format(time.RFC3339Nano)).
			Suffix(`
				ON CONFLICT (name) DO UPDATE SET
					snapshot_date = EXCLUDED.snapshot_date,
					updated_at = EXCLUDED.updated_at
			`).
			ToSql()
		if err != nil {
			return fmt.Errorf("erro ao construir a query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("erro ao promover snapshot %s: %w", key, err)
		}

		logrus.WithFields(logrus.Fields{
			"date":     key,
			"previous": current,
		}).Info("Snapshot promovido para latest")

		return nil
	})
}

func (r *sqlSnapshotRepository) exists(ctx context.Context, q sqldb.Queryer, key string) (bool, error) {
	query, args, err := r.builder().
		Select("COUNT(1)").
		From(snapshotsTable).
		Where(squirrel.Eq{"snapshot_date": key}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var count int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("erro ao verificar snapshot %s: %w", key, err)
	}

	return count > 0, nil
}

// readPointer devolve "" quando latest ainda não foi promovido
func (r *sqlSnapshotRepository) readPointer(ctx context.Context, q sqldb.Queryer) (string, error) {
	query, args, err := r.builder().
		Select("snapshot_date").
		From(pointersTable).
		Where(squirrel.Eq{"name": latestPointer}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("erro ao construir a query: %w", err)
	}

	var key string
	if err := q.QueryRowContext(ctx, query, args...).Scan(&key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("erro ao ler ponteiro latest: %w", err)
	}

	return key, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}

	return false
}
