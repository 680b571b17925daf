package farmers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"farmcrm/internal/common"
	"farmcrm/internal/dbx"
	"farmcrm/internal/models"
)

// SQLiteRepository implements Repository over a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository returns a new SQLiteRepository bound to db.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const farmerColumns = `id, name, region, district, community, contact, gender,
	age, education_level, farm_size, crops_grown, status, join_date,
	created_at, updated_at, ts_confirmed, synced`

// dates are stored as text: calendar dates without a time component,
// timestamps as fixed-width nanosecond RFC3339 so that lexicographic
// order on the column is chronological order. RFC3339Nano would drop
// trailing zeros and break the ORDER BY clauses below.
const (
	dateLayout = "2006-01-02"
	tsLayout   = "2006-01-02T15:04:05.000000000Z07:00"
)

func scanFarmer(scan func(dest ...any) error) (*models.Farmer, error) {
	var (
		f           models.Farmer
		age         sql.NullInt64
		farmSize    sql.NullFloat64
		crops       sql.NullString
		joinDate    sql.NullString
		createdAt   string
		updatedAt   string
		tsConfirmed int
		synced      int
	)

	err := scan(&f.Id, &f.Name, &f.Region, &f.District, &f.Community, &f.Contact,
		&f.Gender, &age, &f.EducationLevel, &farmSize, &crops, &f.Status,
		&joinDate, &createdAt, &updatedAt, &tsConfirmed, &synced)
	if err != nil {
		return nil, err
	}

	if age.Valid {
		v := int(age.Int64)
		f.Age = &v
	}
	if farmSize.Valid {
		v := farmSize.Float64
		f.FarmSize = &v
	}
	if crops.Valid && crops.String != "" {
		if err := json.Unmarshal([]byte(crops.String), &f.CropsGrown); err != nil {
			return nil, fmt.Errorf("failed to decode crops for %s: %w", f.Id, err)
		}
	}
	if joinDate.Valid && joinDate.String != "" {
		d, err := time.ParseInLocation(dateLayout, joinDate.String, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("failed to parse join date for %s: %w", f.Id, err)
		}
		f.JoinDate = &d
	}

	// RFC3339Nano accepts both the fixed-width form written here and
	// fractions of any other width
	ca, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at for %s: %w", f.Id, err)
	}
	ua, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at for %s: %w", f.Id, err)
	}
	f.CreatedAt = models.Timestamp{Time: ca, Confirmed: tsConfirmed == 1}
	f.UpdatedAt = models.Timestamp{Time: ua, Confirmed: tsConfirmed == 1}
	f.Synced = synced == 1

	return &f, nil
}

func farmerArgs(f *models.Farmer) ([]any, error) {
	var crops any
	if f.CropsGrown != nil {
		b, err := json.Marshal(f.CropsGrown)
		if err != nil {
			return nil, fmt.Errorf("failed to encode crops for %s: %w", f.Id, err)
		}
		crops = string(b)
	}

	var joinDate any
	if f.JoinDate != nil {
		joinDate = f.JoinDate.UTC().Format(dateLayout)
	}

	var age any
	if f.Age != nil {
		age = *f.Age
	}
	var farmSize any
	if f.FarmSize != nil {
		farmSize = *f.FarmSize
	}

	// both stamps are confirmed together on a successful push or pull
	tsConfirmed := 0
	if f.CreatedAt.Confirmed && f.UpdatedAt.Confirmed {
		tsConfirmed = 1
	}
	synced := 0
	if f.Synced {
		synced = 1
	}

	return []any{
		f.Id, f.Name, f.Region, f.District, f.Community, f.Contact, string(f.Gender),
		age, string(f.EducationLevel), farmSize, crops, string(f.Status), joinDate,
		f.CreatedAt.Time.UTC().Format(tsLayout), f.UpdatedAt.Time.UTC().Format(tsLayout),
		tsConfirmed, synced,
	}, nil
}

const upsertQuery = `INSERT INTO farmers (` + farmerColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		region = excluded.region,
		district = excluded.district,
		community = excluded.community,
		contact = excluded.contact,
		gender = excluded.gender,
		age = excluded.age,
		education_level = excluded.education_level,
		farm_size = excluded.farm_size,
		crops_grown = excluded.crops_grown,
		status = excluded.status,
		join_date = excluded.join_date,
		created_at = excluded.created_at,
		updated_at = excluded.updated_at,
		ts_confirmed = excluded.ts_confirmed,
		synced = excluded.synced`

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Farmer, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+farmerColumns+` FROM farmers WHERE id = ?`, id)

	f, err := scanFarmer(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get farmer %s: %w", id, err)
	}
	return f, nil
}

func (r *SQLiteRepository) Upsert(ctx context.Context, f *models.Farmer) error {
	args, err := farmerArgs(f)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, upsertQuery, args...); err != nil {
		return fmt.Errorf("failed to upsert farmer %s: %w", f.Id, err)
	}
	return nil
}

func (r *SQLiteRepository) BulkUpsert(ctx context.Context, fs []*models.Farmer) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return bulkUpsert(ctx, tx, fs)
	})
}

func bulkUpsert(ctx context.Context, tx dbx.DBTX, fs []*models.Farmer) error {
	for _, f := range fs {
		args, err := farmerArgs(f)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, upsertQuery, args...); err != nil {
			return fmt.Errorf("failed to upsert farmer %s: %w", f.Id, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM farmers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete farmer %s: %w", id, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.Farmer, error) {
	return r.queryFarmers(ctx, `SELECT `+farmerColumns+` FROM farmers`)
}

func (r *SQLiteRepository) GetPage(ctx context.Context, offset, limit int) ([]*models.Farmer, error) {
	return r.queryFarmers(ctx,
		`SELECT `+farmerColumns+` FROM farmers
		 ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, limit, offset)
}

func (r *SQLiteRepository) GetUnsynced(ctx context.Context, limit int) ([]*models.Farmer, error) {
	return r.queryFarmers(ctx,
		`SELECT `+farmerColumns+` FROM farmers WHERE synced = 0
		 ORDER BY created_at, id LIMIT ?`, limit)
}

func (r *SQLiteRepository) queryFarmers(ctx context.Context, query string, args ...any) ([]*models.Farmer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select farmers: %w", err)
	}
	defer rows.Close()

	var result []*models.Farmer
	for rows.Next() {
		f, err := scanFarmer(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) CountUnsynced(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM farmers WHERE synced = 0`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count unsynced farmers: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM farmers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count farmers: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx,
			`UPDATE farmers SET synced = 1 WHERE id IN (`+placeholders+`)`, args...)
		if err != nil {
			return fmt.Errorf("failed to mark farmers synced: %w", err)
		}
		return nil
	})
}

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, fs []*models.Farmer) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM farmers`); err != nil {
			return fmt.Errorf("failed to clear farmers: %w", err)
		}
		return bulkUpsert(ctx, tx, fs)
	})
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM farmers`); err != nil {
		return fmt.Errorf("failed to clear farmers: %w", err)
	}
	return nil
}
