package mysql

import (
	"context"
	"log/slog"

	"github.com/driftsql/driftsql/pkg/connector"
)

func init() {
	connector.Register("mysql", func(ctx context.Context, url string, logger *slog.Logger) (connector.Queryable, error) {
		return New(ctx, url, logger)
	})
}
