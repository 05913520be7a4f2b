// Package internal documents the meuseventos server internals.
//
// The internal tree is organized by responsibility:
// - api: HTTP handlers, middleware, rendering, and routing
// - domain: users and events, their services and repository contracts
// - storage: PostgreSQL repositories, migrations, and the Redis session store
// - forms, sanitize: form binding and validation, including markup rejection
// - auth, audit, config, metrics, telemetry: shared infrastructure
//
// Code in internal/ is not meant for external import.
package internal
