// Package pipeline is the batch entry point: it expands user paths into
// files, plans renames, applies them sequentially and collects a Result.
//
//   - Discover(fs, paths, opts, log) → []planner.FileEntry
//     Files as given, directories expanded (optionally recursive) with
//     include/exclude globs, de-duplicated in input order.
//   - Plan(ctx, files, rules, opts) → []planner.PlanEntry
//     Validates the rules, then builds a plan with a fresh namespace.
//   - Apply(ctx, files, rules, opts) → Result
//     Re-plans and executes. One file's failure never stops the batch.
package pipeline
