package writer

// MemSink captures output in memory. Bytes is only set on Commit.
type MemSink struct {
	Bytes []byte

	staged []byte
	done   bool
}

func (w *MemSink) Write(p []byte) (int, error) {
	if w.done {
		return 0, ErrClosed
	}
	w.staged = append(w.staged, p...)
	return len(p), nil
}

// WriteAt overwrites or extends the staged bytes.
func (w *MemSink) WriteAt(p []byte, off int64) (int, error) {
	if w.done {
		return 0, ErrClosed
	}
	end := int(off) + len(p)
	if end > len(w.staged) {
		w.staged = append(w.staged, make([]byte, end-len(w.staged))...)
	}
	copy(w.staged[off:], p)
	return len(p), nil
}

func (w *MemSink) Commit() error {
	if w.done {
		return ErrClosed
	}
	w.done = true
	w.Bytes = w.staged
	w.staged = nil
	return nil
}

func (w *MemSink) Abort() error {
	w.done = true
	w.staged = nil
	return nil
}
