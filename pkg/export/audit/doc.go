// Package audit implements the export audit trail: an append-only,
// in-process log with strictly increasing entry ids, mirrored
// asynchronously to a durable archive backend.
//
// The log is the source of truth for ordered retrieval during the process
// lifetime. Entries are never mutated or deleted after creation. The
// archive exists for durability across restarts and for external audit
// tooling; writes to it never block the caller recording an entry.
package audit
