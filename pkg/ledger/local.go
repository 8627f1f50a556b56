package ledger

import (
	"net"
	"os"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// IsLocal reports whether dsn points at a database on this machine: a SQLite
// file, a unix socket, or a host that is localhost, a loopback address or the
// machine's hostname.
func IsLocal(dialect, dsn string) (bool, error) {
	d, err := Lookup(dialect)
	if err != nil {
		return false, err
	}

	hosts, err := hostsOf(d.Name, dsn)
	if err != nil {
		return false, errors.Wrapf(err, "failed to parse %s connection string", d.Name)
	}

	for _, h := range hosts {
		if !isLocalHost(h) {
			return false, nil
		}
	}

	return true, nil
}

func hostsOf(dialect, dsn string) ([]string, error) {
	switch dialect {
	case "sqlite":
		return nil, nil
	case "postgres":
		cfg, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, err
		}

		hosts := []string{cfg.Host}
		for _, fb := range cfg.Fallbacks {
			hosts = append(hosts, fb.Host)
		}
		return hosts, nil
	case "mysql":
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, err
		}

		if cfg.Net == "unix" {
			return nil, nil
		}
		return []string{cfg.Addr}, nil
	case "clickhouse":
		opts, err := clickhouse.ParseDSN(dsn)
		if err != nil {
			return nil, err
		}
		return opts.Addr, nil
	default:
		return nil, errors.Errorf("cannot determine the host of a %s database", dialect)
	}
}

func isLocalHost(addr string) bool {
	host := addr
	if h, _, err := net.SplitHostPort(addr); err == nil {
		host = h
	}

	host = strings.Trim(host, "[]")
	if host == "" || strings.HasPrefix(host, "/") {
		return true
	}

	if strings.EqualFold(host, "localhost") {
		return true
	}

	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback()
	}

	name, err := os.Hostname()
	return err == nil && strings.EqualFold(host, name)
}
