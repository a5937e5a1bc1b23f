// Package reactor models a multi-bed ammonia converter as an ordered list of
// bed setups plus the append-only list of their integration results.
//
// An [Instance] is assembled by a [Builder]. The orchestrator asks it for
// the solver input of bed i ([Instance.SolverInput]), integrates, and hands
// the trajectory back with [Instance.AppendResult] before moving to bed i+1.
// Bed i+1 starts from the final composition of bed i with its temperature
// reset to the bed's own start temperature.
//
// Stored trajectories are read through [Series] cursors, which flatten all
// beds into one continuous curve, and through the summary and range queries.
package reactor
