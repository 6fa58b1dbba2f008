package filesystem

import (
	"fmt"
	"io"
)

// StreamWriter is an [io.WriteCloser] feeding a concurrently running upload.
// Data written to it is piped into the reader the upload consumes; Close
// ends the stream and waits for the upload to finish.
type StreamWriter struct {
	pw     *io.PipeWriter
	done   chan error
	closed bool
	err    error
}

// NewStreamWriter starts upload in a goroutine and returns a pointer to a new
// [StreamWriter] feeding it. If upload returns early, further writes fail
// with its error.
func NewStreamWriter(upload func(r io.Reader) error) *StreamWriter {
	pr, pw := io.Pipe()
	w := &StreamWriter{
		pw:   pw,
		done: make(chan error, 1),
	}

	go func() {
		err := upload(pr)
		_ = pr.CloseWithError(err)
		w.done <- err
	}()

	return w
}

func (w *StreamWriter) Write(p []byte) (int, error) {
	n, err := w.pw.Write(p)
	if err != nil {
		return n, fmt.Errorf("(fs-stream) upload failed: %w", err)
	}

	return n, nil
}

// Close ends the stream and returns the result of the upload. Repeated calls
// return the same result.
func (w *StreamWriter) Close() error {
	if w.closed {
		return w.err
	}
	w.closed = true

	_ = w.pw.Close()
	w.err = <-w.done

	return w.err
}

// CloseWithError aborts the stream, so the upload reads cause instead of a
// clean end of data, and waits for the upload to return.
func (w *StreamWriter) CloseWithError(cause error) error {
	if w.closed {
		return w.err
	}
	w.closed = true

	_ = w.pw.CloseWithError(cause)
	w.err = <-w.done

	return w.err
}
