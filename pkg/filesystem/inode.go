package filesystem

import "math"

// WrapInode folds an unsigned inode number into the signed range legacy
// hosts report: values above the signed 32-bit maximum have 2^32 taken
// off once (diminished radix wrap). Values of 2^32 and above stay outside
// the 32-bit range after that single subtraction; they are not folded
// further. Both sides of an inode comparison must go through this function.
func WrapInode(ino uint64) int64 {
	if ino > math.MaxInt32 {
		return int64(ino - 1<<32)
	}
	return int64(ino)
}
