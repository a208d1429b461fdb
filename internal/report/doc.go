// Package report turns a class snapshot into a class performance report.
//
// Everything here is synchronous and free of side effects: no storage, no
// caching and no shared state. Given the same snapshot, Generate returns
// the same report apart from GeneratedAt.
package report
