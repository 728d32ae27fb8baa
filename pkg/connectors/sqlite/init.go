// Package sqlite provides the SQLite connector for driftsql.
//
// This file registers the connector with the connector registry.
// Import this package with a blank identifier to register it:
//
//	import _ "github.com/driftsql/driftsql/pkg/connectors/sqlite"
package sqlite

import (
	"context"
	"log/slog"

	"github.com/driftsql/driftsql/pkg/connector"
)

func init() {
	connector.Register("sqlite", func(ctx context.Context, url string, logger *slog.Logger) (connector.Queryable, error) {
		return New(ctx, url, logger)
	})
}
