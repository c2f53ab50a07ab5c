// Package mediaingest converts at-least-once object-storage notifications
// into exactly-once lifecycle transitions on tracked media assets.
//
// Two provider formats are supported: a push-style signed notification (one
// JSON body per delivery, bearer-token authenticated) and a pub/sub-style
// enveloped notification (subscription handshake, envelope unwrapping, record
// batches). Both are normalized into CanonicalEvent values and dispatched
// through the Service, which deduplicates deliveries via an idempotency
// ledger, applies the asset state machine, keeps denormalized references on
// owning entities consistent, and hands superseded files to a detached
// cleanup worker.
//
// Persistence and object storage are pluggable; see the repo and storage
// subpackages for PostgreSQL, S3 and in-memory implementations.
package mediaingest
