// Package core defines the backend-agnostic data model shared by all
// driftsql connectors: tagged parameter values, materialized result
// sets, generated identifiers, and the typed error kinds connectors
// report.
//
// Concrete connector implementations live in pkg/connectors/
// subdirectories and exchange these types through the contract defined
// in pkg/connector.
package core
