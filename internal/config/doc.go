// Package config loads the server configuration from environment variables.
package config
