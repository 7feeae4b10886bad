// Package writer provides destinations for encoded LAS output. Every sink
// stages its bytes and publishes them only on Commit.
package writer

import "io"

// Sink is a staged destination. WriteAt is used to back-patch headers once
// the record counts are known.
type Sink interface {
	io.Writer
	io.WriterAt
	// Commit publishes everything written so far.
	Commit() error
	// Abort discards everything written. It is safe to call after Commit,
	// in which case it does nothing.
	Abort() error
}
