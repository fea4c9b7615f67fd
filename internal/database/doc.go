// Package database provides the PostgreSQL adapter: connection pooling,
// schema bootstrap and the repository implementations for debates and
// administrators.
package database
