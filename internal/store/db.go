package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"log"
	"math"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"snakebite-dashboard/internal/metrics"
	"snakebite-dashboard/internal/model"
	"snakebite-dashboard/internal/pipeline"
)

// ErrUnavailable is returned when the database cannot be reached even after
// the pool has been rebuilt.
var ErrUnavailable = errors.New("database unavailable")

// DefaultTable is the case table used when none is configured.
const DefaultTable = "snakebite_2019"

// DefaultProcedure produces the monthly aggregates on MySQL.
const DefaultProcedure = "get_monthly_snakebite_data"

// Config holds the connection and schema settings of a Store.
type Config struct {
	Driver   string
	DSN      string
	Host     string
	User     string
	Password string
	Name     string
	Port     int

	Table string
	// Procedure is the stored procedure called for monthly aggregates on
	// MySQL. Empty selects the built-in window query.
	Procedure string
	// AutoMigrate creates the case table when it does not exist.
	AutoMigrate  bool
	MaxOpenConns int
}

// Opener opens a connection pool; tests replace it to observe rebuilds.
type Opener func(driverName, dsn string) (*sqlx.DB, error)

// Store owns the connection pool of the case table. The pool is checked
// before each operation and rebuilt at most once per operation.
type Store struct {
	cfg     Config
	dialect Dialect
	dsn     string
	open    Opener

	mu sync.Mutex
	db *sqlx.DB
	// migrated is set once the case table has been created on some pool.
	migrated bool
}

// New validates cfg and returns an unconnected Store.
func New(cfg Config) (*Store, error) {
	d, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	if cfg.Table == "" {
		cfg.Table = DefaultTable
	}
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = 10
	}
	return &Store{cfg: cfg, dialect: d, dsn: d.DSN(cfg), open: sqlx.Open}, nil
}

// Open connects to the database and, when configured, creates the schema.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	s, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return s, s.init(ctx)
}

// WithOpener replaces the pool constructor. It must be called before use.
func (s *Store) WithOpener(o Opener) *Store {
	s.open = o
	return s
}

func (s *Store) init(ctx context.Context) error {
	if _, err := s.conn(ctx); err != nil {
		return err
	}
	log.Printf("🗄️ Connected to %s (table %s)", s.dialect.Name, s.cfg.Table)
	return nil
}

// Dialect reports the engine the store talks to.
func (s *Store) Dialect() Dialect { return s.dialect }

// Table reports the case table name.
func (s *Store) Table() string { return s.cfg.Table }

// Close releases the pool.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// conn returns a live pool, rebuilding it when the current one fails a ping.
func (s *Store) conn(ctx context.Context) (*sqlx.DB, error) {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()

	if db != nil {
		err := db.PingContext(ctx)
		if err == nil {
			return db, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Printf("⚠️ Connection check failed, recreating pool: %v", err)
		s.invalidate(db)
	}
	return s.rebuild(ctx)
}

// invalidate drops db if it is still the current pool.
func (s *Store) invalidate(db *sqlx.DB) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == db && db != nil {
		_ = db.Close()
		s.db = nil
		metrics.RecordReconnect(s.dialect.Name)
	}
}

func (s *Store) rebuild(ctx context.Context) (*sqlx.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db, nil
	}

	log.Printf("🔌 Initializing new %s connection pool", s.dialect.Name)
	db, err := s.open(s.dialect.Driver, s.dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrUnavailable, s.dialect.Name, err)
	}
	db.SetMaxOpenConns(s.cfg.MaxOpenConns)
	db.SetConnMaxIdleTime(5 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if s.cfg.AutoMigrate && !s.migrated {
		if err := s.migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	s.db = db
	return db, nil
}

// withConn runs fn against a live pool. When fn fails with a connection
// error the pool is rebuilt and fn runs exactly once more.
func (s *Store) withConn(ctx context.Context, fn func(*sqlx.DB) error) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	err = fn(db)
	if err == nil || !isConnError(err) {
		return err
	}

	log.Printf("⚠️ Database operation lost its connection, retrying once: %v", err)
	s.invalidate(db)
	db, err = s.rebuild(ctx)
	if err != nil {
		return err
	}
	if err := fn(db); err != nil {
		if isConnError(err) {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return err
	}
	return nil
}

// isConnError reports whether err means the pool, rather than the query, is
// at fault.
func isConnError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return strings.Contains(err.Error(), "database is closed")
}

// Ping checks connectivity, rebuilding the pool if needed.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.conn(ctx)
	return err
}

// migrate creates the case table if it does not exist. It runs on the
// first pool that pings, so a store opened while the database was down
// still gets its table once the database comes up. Callers hold mu.
func (s *Store) migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, s.dialect.createTableSQL(s.cfg.Table)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", s.cfg.Table, err)
	}
	s.migrated = true
	log.Printf("🧱 Ensured table %s exists", s.cfg.Table)
	return nil
}

// InsertCases writes every batch in one transaction, one multi-row INSERT
// per batch, in order. It returns the number of rows written.
func (s *Store) InsertCases(ctx context.Context, batches [][]model.CaseRecord) (int, error) {
	var inserted int
	err := s.withConn(ctx, func(db *sqlx.DB) error {
		inserted = 0
		tx, err := db.BeginTxx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		for i, batch := range batches {
			if len(batch) == 0 {
				continue
			}
			args := make([]any, 0, len(batch)*len(model.Columns))
			for _, rec := range batch {
				args = append(args, rec.Values()...)
			}
			q := tx.Rebind(s.dialect.insertSQL(s.cfg.Table, len(batch)))
			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				return fmt.Errorf("batch %d: %w", i+1, err)
			}
			inserted += len(batch)
		}
		return tx.Commit()
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert cases: %w", err)
	}
	return inserted, nil
}

// ListCases returns every case ordered by arrival date.
func (s *Store) ListCases(ctx context.Context) ([]model.CaseRecord, error) {
	q := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s ASC",
		s.dialect.selectColumns(), s.dialect.Quote(s.cfg.Table), model.ColArrivalDate.FieldName())

	var records []model.CaseRecord
	err := s.withConn(ctx, func(db *sqlx.DB) error {
		records = records[:0]
		return db.SelectContext(ctx, &records, q)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	for i := range records {
		if records[i].Date != nil {
			records[i].Date = pipeline.CanonicalDate(*records[i].Date)
		}
	}
	if records == nil {
		records = []model.CaseRecord{}
	}
	return records, nil
}

// CaseDates returns the arrival date of every case, ascending.
func (s *Store) CaseDates(ctx context.Context) ([]model.DateEvent, error) {
	col := model.ColArrivalDate
	q := fmt.Sprintf("SELECT %s AS %s FROM %s ORDER BY %s ASC",
		s.dialect.Quote(col.StorageName()), col.FieldName(), s.dialect.Quote(s.cfg.Table), col.FieldName())

	var events []model.DateEvent
	err := s.withConn(ctx, func(db *sqlx.DB) error {
		events = events[:0]
		return db.SelectContext(ctx, &events, q)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list case dates: %w", err)
	}
	for i := range events {
		if events[i].Date != nil {
			events[i].Date = pipeline.CanonicalDate(*events[i].Date)
		}
	}
	if events == nil {
		events = []model.DateEvent{}
	}
	return events, nil
}

// monthlyRow accepts whatever types the engine returns for the aggregate
// columns; the stored procedure in particular is not under our control.
type monthlyRow struct {
	Year         any `db:"year"`
	MonthStart   any `db:"month_start"`
	MonthName    any `db:"month_name"`
	MonthlyCount any `db:"monthly_count"`
	YTDCount     any `db:"ytd_count"`
}

// MonthlyAggregates returns one row per month with a year-to-date total.
// On MySQL the configured stored procedure produces the rows.
func (s *Store) MonthlyAggregates(ctx context.Context) ([]model.MonthlyAggregate, error) {
	q := s.dialect.monthlyQuery(s.cfg.Table, model.ColArrivalDate.StorageName(), s.procedure())

	var rows []monthlyRow
	err := s.withConn(ctx, func(db *sqlx.DB) error {
		rows = rows[:0]
		return db.Unsafe().SelectContext(ctx, &rows, q)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly aggregates: %w", err)
	}

	out := make([]model.MonthlyAggregate, 0, len(rows))
	for _, r := range rows {
		agg := model.MonthlyAggregate{
			Year:         toInt(r.Year),
			MonthName:    toString(r.MonthName),
			MonthlyCount: toInt(r.MonthlyCount),
			YTDCount:     toInt(r.YTDCount),
		}
		if t, ok := pipeline.NormalizeDate(toString(r.MonthStart)); ok {
			agg.MonthStart = pipeline.FormatDate(t)
			if agg.MonthName == "" {
				agg.MonthName = t.Month().String()
			}
			if agg.Year == 0 {
				agg.Year = t.Year()
			}
		}
		out = append(out, agg)
	}
	return out, nil
}

func (s *Store) procedure() string {
	if s.dialect != MySQL {
		return ""
	}
	return s.cfg.Procedure
}

func toInt(v any) int {
	switch x := v.(type) {
	case int64:
		return int(x)
	case int32:
		return int(x)
	case int:
		return x
	case float64:
		return int(math.Round(x))
	case []byte:
		return toInt(string(x))
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		return int(math.Round(f))
	}
	return 0
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339)
	}
	return fmt.Sprint(v)
}
