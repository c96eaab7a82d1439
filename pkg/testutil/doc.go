// Package testutil provides utilities for testing dolink components.
//
// Key components:
//   - MemoryFS: in-memory types.LinkFS with inode numbers, dangling links
//     and per-operation error injection
//   - TempTree: real-filesystem fixtures rooted in t.TempDir()
//   - MockAccessControl: testify mock for the access control collaborator
//
// Usage guidelines:
//   - Planner, guard and executor tests use MemoryFS for speed and isolation
//   - Tests that must observe real link semantics use TempTree
//   - Each test should be completely isolated with no shared state
package testutil
