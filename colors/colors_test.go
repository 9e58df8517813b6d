package colors

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModeControlsEscapes(t *testing.T) {
	defer SetMode(Auto)

	SetMode(Always)
	assert.Equal(t, "\033[31mboom\033[0m", RED.Sprint("boom"))

	SetMode(Never)
	assert.Equal(t, "boom", RED.Sprint("boom"))

	var buf bytes.Buffer
	CYAN.Fprintf(&buf, "[%d]", 1)
	assert.Equal(t, "[1]", buf.String())
}

func TestStripANSI(t *testing.T) {
	assert.Equal(t, "error: x", StripANSI("\033[1;31merror\033[0m: x"))
	assert.Equal(t, "plain", StripANSI("plain"))
}

func TestFprintlnKeepsNewlineOutsideEscape(t *testing.T) {
	defer SetMode(Auto)
	SetMode(Always)

	var buf bytes.Buffer
	GREEN.Fprintln(&buf, "ok", 2)
	assert.Equal(t, "\033[32mok 2\033[0m\n", buf.String())
	assert.Equal(t, "ok 2\n", StripANSI(buf.String()))
	assert.Equal(t, "warn", StripANSI(ORANGE.Sprint("warn")))
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"auto", "always", "never"} {
		m, err := ParseMode(s)
		assert.NoError(t, err)
		assert.Equal(t, Mode(s), m)
	}
	_, err := ParseMode("sometimes")
	assert.Error(t, err)
}

type failingWriter struct{}

var errClosed = errors.New("closed")

func (failingWriter) Write([]byte) (int, error) { return 0, errClosed }

func TestWriterErrorsAreReturned(t *testing.T) {
	defer SetMode(Auto)
	SetMode(Never)

	_, err := RED.Fprintf(failingWriter{}, "%d", 1)
	assert.ErrorIs(t, err, errClosed)
	_, err = RED.Fprintln(failingWriter{}, "x")
	assert.ErrorIs(t, err, errClosed)
	_, err = RED.Fprint(failingWriter{}, "x")
	assert.ErrorIs(t, err, errClosed)

	var buf bytes.Buffer
	n, err := GREEN.Fprintln(&buf, "ok")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
