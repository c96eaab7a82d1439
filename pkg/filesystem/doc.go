// Package filesystem provides the OS link abstraction for dolink.
//
// It contains the platform implementation of types.LinkFS. POSIX systems
// read inode numbers from stat(2); Windows uses the file index reported by
// GetFileInformationByHandle. The implementation is chosen at build time
// and handed out once per process by Default.
package filesystem
