// Package crm is the in-memory relational data layer: three coupled entity
// stores plus a small UI coordination store.
//
// # Architecture
//
//   - ClientStore: clients with search/filter and tag aggregation
//   - LeadStore: sales pipeline with stage moves and value aggregation
//   - TaskStore: follow-up tasks with filtering, overdue/upcoming derivation,
//     and completion statistics
//   - UIStore: active modal, theme, and sidebar flags
//   - System: wires the stores over one persist.Sink and ident.Service and
//     adds the cross-store name-resolution joins
//
// Each store exclusively owns its collection. Cross-references between
// entities are plain id strings resolved by lookup at read time; deleting a
// referent never cascades, it just leaves a dangling id that resolves to
// "unknown". The denormalized ClientName/LeadTitle fields are save-time
// snapshots and drift on purpose when the referent is renamed.
//
// # Persistence
//
// Every mutation applies in memory and then synchronously writes the store's
// whole snapshot through the sink. A failed write is logged and surfaced via
// LastPersistError but never rolls the mutation back. Derived views
// (Filter, PipelineValue, Overdue, Stats, ...) are computed on demand from
// current state; nothing is cached.
//
// # Error Handling
//
// Get returns ErrNotFound for unknown ids. Update, Delete, and MoveStage
// treat unknown ids as silent no-ops. Date comparisons are pinned to UTC.
package crm
