// Package memzero wipes key material once it is no longer needed.
package memzero

import "runtime"

// Zero overwrites every byte of b with zero.
func Zero(b []byte) {
	clear(b)
	runtime.KeepAlive(b)
}
