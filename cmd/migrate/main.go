package main

import (
	"multisig_wallet/internal/config" // Custom import path (Config)
	"multisig_wallet/internal/db"     // Custom import path (Database)
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Run schema migration against the configured database
	db.Migrate(cfg.DSN())
}
