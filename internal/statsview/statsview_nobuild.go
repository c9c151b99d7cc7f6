//go:build !statsview
// +build !statsview

package statsview

import "io"

// Address is empty in builds without the stats server.
const Address = ""

// Launch is a no-op; the binary was built without the statsview tag.
func Launch(output io.Writer) {
}

// Available reports whether the binary carries the stats server.
func Available() bool {
	return false
}
