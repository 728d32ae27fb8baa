package sqlite

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/driftsql/driftsql/pkg/core"
)

// Params is the typed configuration parsed from a SQLite address
// string. Immutable after construction.
//
// FilePath is a string rather than a filesystem path type: the ATTACH
// statement embeds the path as a bound SQL value, which requires valid
// UTF-8 text.
type Params struct {
	FilePath        string
	DBName          string
	ConnectionLimit int
}

// DefaultConnectionLimit is the concurrency hint used when the address
// string carries no connection_limit parameter.
func DefaultConnectionLimit() int {
	return 2*runtime.NumCPU() + 1
}

// ParseParams parses an address of the form
//
//	["file:"] <path> ["?" key "=" value {"&" key "=" value}]
//
// Recognized keys are connection_limit (positive integer) and db_name.
// Unknown keys are discarded with a debug log so dialect-specific
// options added elsewhere do not break parsing. The file itself need
// not exist; only a path naming an existing directory is rejected.
func ParseParams(url string, logger *slog.Logger) (*Params, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	trimmed := strings.TrimPrefix(url, "file:")
	path, query, _ := strings.Cut(trimmed, "?")

	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return nil, &core.InvalidDatabaseURLError{URL: path}
	}

	p := &Params{
		FilePath:        path,
		ConnectionLimit: DefaultConnectionLimit(),
	}

	if query == "" {
		return p, nil
	}
	for _, pair := range strings.Split(query, "&") {
		key, value, _ := strings.Cut(pair, "=")
		switch key {
		case "connection_limit":
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("connection_limit %q: %w", value, core.ErrInvalidConnectionArguments)
			}
			p.ConnectionLimit = n
		case "db_name":
			p.DBName = value
		default:
			logger.Debug("discarding connection string param", slog.String("param", key))
		}
	}
	return p, nil
}

// Options holds SQLite-specific configuration decoded from a
// datasource's free-form params block (driftsql.yaml).
type Options struct {
	// Attach lists logical database names attached on connect, in
	// addition to any db_name carried by the address string.
	Attach []string `mapstructure:"attach"`
}

// ParseOptions decodes a raw params map into Options.
func ParseOptions(params map[string]any) (*Options, error) {
	opts := &Options{}
	if len(params) == 0 {
		return opts, nil
	}
	if err := mapstructure.Decode(params, opts); err != nil {
		return nil, fmt.Errorf("invalid sqlite params: %w", err)
	}
	return opts, nil
}
