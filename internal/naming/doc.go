// Package naming turns an original file name into its final name.
//
// The work is split into three steps, applied per file by the planner:
//
//   - [Transformer.Transform] applies the case mode (title, lower, upper or
//     timestamp) to the stem. It is pure.
//   - [Sanitize] makes the candidate stem filesystem-safe. It is pure.
//   - [Resolver.Resolve] checks the candidate against the names already
//     claimed in this run ([Namespace]) and those on disk, and adds a
//     "-NNNN" counter in timestamp mode.
//
// [SplitName] and [ValidName] hold the file name rules shared by the other
// packages.
package naming
