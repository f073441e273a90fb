package store

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect captures the SQL differences between the supported engines.
type Dialect struct {
	// Name is the configured engine name.
	Name string
	// Driver is the database/sql driver name.
	Driver string
}

var (
	MySQL    = Dialect{Name: "mysql", Driver: "mysql"}
	Postgres = Dialect{Name: "postgres", Driver: "pgx"}
	SQLite   = Dialect{Name: "sqlite3", Driver: "sqlite3"}
)

// DialectFor resolves a configured engine name.
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mysql", "":
		return MySQL, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "sqlite3", "sqlite":
		return SQLite, nil
	}
	return Dialect{}, fmt.Errorf("unsupported database driver %q", name)
}

// Quote quotes an identifier; the case table uses column names with spaces.
func (d Dialect) Quote(ident string) string {
	if d == MySQL {
		return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// DSN returns cfg.DSN when set, otherwise builds one from the discrete
// connection settings.
func (d Dialect) DSN(cfg Config) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	port := cfg.Port
	switch d {
	case MySQL:
		mc := mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		if port == 0 {
			port = 3306
		}
		mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(port))
		mc.DBName = cfg.Name
		mc.ParseTime = true
		return mc.FormatDSN()

	case Postgres:
		if port == 0 {
			port = 5432
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(cfg.User, cfg.Password),
			Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
			Path:     "/" + cfg.Name,
			RawQuery: "sslmode=disable",
		}
		return u.String()

	default:
		if cfg.Name == "" {
			return "snakebite.db"
		}
		return cfg.Name
	}
}

// monthlyQuery returns the statement producing one row per calendar month
// with year, month_start, monthly_count and a year-to-date running total.
func (d Dialect) monthlyQuery(table, dateColumn, procedure string) string {
	t, c := d.Quote(table), d.Quote(dateColumn)
	switch d {
	case MySQL:
		if procedure != "" {
			return "CALL " + procedure + "()"
		}
		return fmt.Sprintf(`SELECT year, month_start, month_name, monthly_count,
	CAST(SUM(monthly_count) OVER (PARTITION BY year ORDER BY month_start) AS SIGNED) AS ytd_count
FROM (
	SELECT YEAR(%[2]s) AS year,
		DATE_FORMAT(%[2]s, '%%Y-%%m-01') AS month_start,
		MONTHNAME(%[2]s) AS month_name,
		COUNT(*) AS monthly_count
	FROM %[1]s
	WHERE %[2]s IS NOT NULL
	GROUP BY YEAR(%[2]s), DATE_FORMAT(%[2]s, '%%Y-%%m-01'), MONTHNAME(%[2]s)
) m
ORDER BY month_start`, t, c)

	case Postgres:
		return fmt.Sprintf(`SELECT year, month_start, monthly_count,
	CAST(SUM(monthly_count) OVER (PARTITION BY year ORDER BY month_start) AS INTEGER) AS ytd_count
FROM (
	SELECT CAST(EXTRACT(YEAR FROM %[2]s) AS INTEGER) AS year,
		to_char(date_trunc('month', %[2]s), 'YYYY-MM-DD') AS month_start,
		COUNT(*) AS monthly_count
	FROM %[1]s
	WHERE %[2]s IS NOT NULL
	GROUP BY 1, 2
) m
ORDER BY month_start`, t, c)

	default:
		return fmt.Sprintf(`SELECT year, month_start, monthly_count,
	SUM(monthly_count) OVER (PARTITION BY year ORDER BY month_start) AS ytd_count
FROM (
	SELECT CAST(strftime('%%Y', %[2]s) AS INTEGER) AS year,
		strftime('%%Y-%%m-01', %[2]s) AS month_start,
		COUNT(*) AS monthly_count
	FROM %[1]s
	WHERE strftime('%%Y-%%m-01', %[2]s) IS NOT NULL
	GROUP BY 1, 2
) m
ORDER BY month_start`, t, c)
	}
}
