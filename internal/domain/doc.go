// Package domain defines the persistence records and cross-cutting
// interfaces shared by the debate core and its adapters.
//
// This package contains contracts only - no implementation code. Keeping the
// interfaces on the consumer side prevents circular imports between the core
// and the Postgres/Redis adapters.
package domain
