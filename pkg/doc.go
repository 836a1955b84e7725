// Package pkg provides the core libraries for uncouple.
//
// # Overview
//
// Uncouple removes coupling junctions joining exactly two linear segments
// from a building model and restores connectivity. The typical data flow:
//
//	model JSON
//	     ↓
//	[modelio] package (import into an in-memory host model)
//	     ↓
//	[topology] package (find the segments attached to each junction)
//	     ↓
//	[engine] package (disconnect, delete, reconnect per junction)
//	     ↓
//	[reconnect] package (strategy chain: merge, extend, link, bridge)
//	     ↓
//	processed model JSON / run report / diagram
//
// # Main Packages
//
// [geom] - 3D points, vectors, and bounded linear spans.
//
// [model] - Elements, ports, and the Host interface the engine mutates
// through. Optional host capabilities (batch deletion, native union) are
// separate interfaces discovered by type assertion.
//
// [model/memory] - Reference in-memory host with batch transaction
// semantics.
//
// [topology] - Attached-segment discovery: port-graph walk with a geometric
// proximity fallback.
//
// [reconnect] - The six-strategy reconnection chain and its distance gates.
//
// [engine] - Batch orchestration: discovery, disconnect, escalating delete,
// reconnect, and per-junction reporting.
//
// [modelio] - JSON import/export of models.
//
// [report] - Run records with memory, Redis, and MongoDB stores.
//
// [viz] - Connectivity diagrams via Graphviz.
//
// [errors] - Structured errors with machine-readable codes.
//
// [observability] - Hook interfaces for engine telemetry.
package pkg
