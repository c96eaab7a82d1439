// Package executor applies planned link actions through the OS link
// abstraction. In dry-run mode it only records what it would do.
package executor
