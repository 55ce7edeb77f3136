// Package placement assigns geographic points to incident records.
//
// The pipeline resolves each record to a county (explicit field first,
// then deterministic substring inference over the canonical county list
// and a town/neighbourhood alias map), then scatters one random point per
// record inside the resolved county's polygon. Records whose county
// cannot be resolved fall back to a configured default county; records
// that cannot be placed at all are dropped and counted, never rendered.
//
// Placement is set exactly once per record. A record without a placement
// is excluded from every downstream consumer.
package placement
