package seriallog

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func feedAll(f *Framer, data []byte) []string {
	var lines []string
	for _, b := range data {
		if line, ok := f.Feed(b); ok {
			lines = append(lines, string(line))
		}
	}
	return lines
}

func TestFramer_CRLF(t *testing.T) {
	var f Framer
	lines := feedAll(&f, []byte("abc\rdef\n\r"))
	require.Equal(t, []string{"abc", "def"}, lines)
	require.Zero(t, f.Pending())
}

func TestFramer_LineFeedNeverCompletes(t *testing.T) {
	var f Framer
	lines := feedAll(&f, []byte("one\ntwo\n"))
	require.Empty(t, lines)
	require.Equal(t, len("onetwo"), f.Pending())

	line, ok := f.Feed(LineTerminator)
	require.True(t, ok)
	require.Equal(t, "onetwo", string(line))
}

func TestFramer_EmptyLines(t *testing.T) {
	var f Framer
	lines := feedAll(&f, []byte("\r\r\n\r"))
	require.Equal(t, []string{"", "", ""}, lines)
}

func TestFramer_ReturnedLineIsNotReused(t *testing.T) {
	var f Framer
	var first []byte
	for _, b := range []byte("first\r") {
		if line, ok := f.Feed(b); ok {
			first = line
		}
	}

	var got [][]byte
	for l := range f.Lines([]byte("xyz\rq\r")) {
		got = append(got, l)
	}
	require.Equal(t, "first", string(first))
	require.Equal(t, [][]byte{[]byte("xyz"), []byte("q")}, got)
}

func TestFramer_Reset(t *testing.T) {
	var f Framer
	feedAll(&f, []byte("partial"))
	require.Equal(t, 7, f.Pending())
	f.Reset()
	require.Equal(t, []string{"next"}, feedAll(&f, []byte("next\r")))
}

func TestFramer_LinesStopsEarly(t *testing.T) {
	var f Framer
	var got []string
	for l := range f.Lines([]byte("a\rb\rc\r")) {
		got = append(got, string(l))
		break
	}
	require.Equal(t, []string{"a"}, got)
}

func TestFramer_ArbitraryBytes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	alphabet := []byte{LineTerminator, LineFeed, 'a', ',', 0x00, 0xff, ' '}

	for i := 0; i < 200; i++ {
		data := make([]byte, rng.Intn(64))
		for j := range data {
			data[j] = alphabet[rng.Intn(len(alphabet))]
		}

		var f Framer
		lines := feedAll(&f, data)

		segments := bytes.Split(data, []byte{LineTerminator})
		require.Len(t, lines, len(segments)-1, "data %q", data)
		for k, line := range lines {
			want := bytes.ReplaceAll(segments[k], []byte{LineFeed}, nil)
			require.Equal(t, string(want), line, "data %q", data)
		}
		tail := bytes.ReplaceAll(segments[len(segments)-1], []byte{LineFeed}, nil)
		require.Equal(t, len(tail), f.Pending())
	}
}
