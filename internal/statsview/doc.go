// Package statsview serves live runtime statistics over HTTP during long
// benchmark runs. The server is compiled in only when the statsview build
// tag is set; the default build carries a stub that reports it as
// unavailable.
//
// With the tag set, charts are served at localhost:12680/debug/statsview
// and the standard pprof endpoints at localhost:12680/debug/pprof/.
package statsview
