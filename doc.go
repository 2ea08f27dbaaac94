// Package quicknotes is the composition root of QuickNotes, a small
// personal note manager.
//
// A notebook is a list of notes (title, content, one of six colors and
// creation/update times) kept in memory and written back in full to a
// key-value store after every change. The domain lives in pkg/core, the
// serialization in pkg/storage and the stores in pkg/adapters:
//
//   - memory: process-local map, for tests and scratch use.
//   - fs: one file per key, optionally versioned with Git.
//   - sqlite: a single key/value table.
//   - redis: string keys with Pub/Sub change notifications.
//
// Storage failures never lose the in-memory state. A write that cannot be
// persisted still applies and is reported with ErrPersistenceDegraded, and
// unreadable stored data loads as an empty notebook.
//
// Usage:
//
//	nb, err := quicknotes.Open(ctx, "./notes",
//		quicknotes.WithAutoInit(true),
//		quicknotes.WithLogger(logger),
//	)
//
//	note, err := nb.Create(ctx, "Groceries", "milk, eggs", quicknotes.ColorGreen)
//	visible := nb.Query(quicknotes.Query{Search: "milk", Sort: quicknotes.SortByTitle})
package quicknotes
