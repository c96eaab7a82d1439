// Package types defines the core types and interfaces used throughout dolink.
// This includes the desired-state LinkDescriptor, the observed LinkSnapshot,
// and the LinkFS and AccessControl interfaces the engine is written against.
package types
