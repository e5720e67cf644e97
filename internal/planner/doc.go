// Package planner decides the final name of every file in a batch and
// builds the ordered plan that preview renders and the applier executes.
//
// Implemented:
//   - FileEntry, PlanEntry, Outcome, Counts (types.go)
//   - BuildPlan: transform, sanitize and resolve per file, then the
//     rename / no-change / conflict decision (planner.go)
package planner
