//go:build statsview
// +build statsview

package statsview

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// Address the stats server listens on.
const Address = "localhost:12680"

// Launch starts the stats server in the background and tells the user
// where to reach it.
func Launch(output io.Writer) {
	viewer.SetConfiguration(viewer.WithAddr(Address))
	mgr := statsview.New()
	go mgr.Start()

	fmt.Fprintf(output, "stats server listening on http://%s/debug/statsview\n", Address)
}

// Available reports whether the binary carries the stats server.
func Available() bool {
	return true
}
