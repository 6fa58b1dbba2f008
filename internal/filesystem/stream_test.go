package filesystem

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStreamWriter_Success verifies that the upload receives all written data.
func TestStreamWriter_Success(t *testing.T) {
	t.Parallel()

	var got []byte
	w := NewStreamWriter(func(r io.Reader) error {
		var err error
		got, err = io.ReadAll(r)

		return err
	})

	_, err := io.WriteString(w, "hello ")
	require.NoError(t, err)
	_, err = io.WriteString(w, "world")
	require.NoError(t, err)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	assert.Equal(t, "hello world", string(got))
}

// TestStreamWriter_UploadFails verifies that an upload error surfaces on both
// Write and Close.
func TestStreamWriter_UploadFails(t *testing.T) {
	t.Parallel()

	errUpload := errors.New("upload refused")
	w := NewStreamWriter(func(io.Reader) error {
		return errUpload
	})

	_, err := io.WriteString(w, "data")
	require.ErrorIs(t, err, errUpload)

	require.ErrorIs(t, w.Close(), errUpload)
	require.ErrorIs(t, w.Close(), errUpload)
}

// TestStreamWriter_CloseWithError verifies that an aborted stream ends the
// upload with the cause instead of a clean end of data.
func TestStreamWriter_CloseWithError(t *testing.T) {
	t.Parallel()

	var got []byte
	w := NewStreamWriter(func(r io.Reader) error {
		var err error
		got, err = io.ReadAll(r)

		return err
	})

	_, err := io.WriteString(w, "partial")
	require.NoError(t, err)

	errCause := errors.New("write failed")
	require.ErrorIs(t, w.CloseWithError(errCause), errCause)
	require.ErrorIs(t, w.Close(), errCause)

	assert.Equal(t, "partial", string(got))
}
