//go:build windows

package access

import "errors"

var errUnsupported = errors.New("ownership not supported")

// Windows accounts are SIDs, not numeric ids, so names are never resolved.
var ownershipSupported = false

// Windows ownership lives in ACLs, which dolink does not manage.
func currentOwner(path string) (int, int, error) {
	return -1, -1, errUnsupported
}
