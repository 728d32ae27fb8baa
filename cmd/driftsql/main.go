// Package main is the driftsql command-line entrypoint.
package main

import (
	"os"

	"github.com/driftsql/driftsql/internal/cli"

	// Connectors register themselves with the registry on import.
	_ "github.com/driftsql/driftsql/pkg/connectors/mysql"
	_ "github.com/driftsql/driftsql/pkg/connectors/postgres"
	_ "github.com/driftsql/driftsql/pkg/connectors/sqlite"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
