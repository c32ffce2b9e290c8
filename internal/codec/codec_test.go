package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	payloads := map[string][]byte{
		"empty":      {},
		"short":      []byte("Hello, World!"),
		"repetitive": bytes.Repeat([]byte("abcd"), 4096),
		"binary":     {0x00, 0xff, 0x80, 0x7f, 0x01, 0xfe},
	}

	for _, m := range Methods() {
		for name, payload := range payloads {
			t.Run(string(m)+"/"+name, func(t *testing.T) {
				t.Parallel()

				packed, err := Compress(payload, m, DefaultLevel)
				require.NoError(t, err)

				got, err := Decompress(packed, m)
				require.NoError(t, err)
				assert.Equal(t, payload, got)
			})
		}
	}
}

func TestNoneIsIdentity(t *testing.T) {
	t.Parallel()

	data := []byte("unchanged")

	packed, err := Compress(data, None, DefaultLevel)
	require.NoError(t, err)
	assert.Equal(t, data, packed)

	got, err := Decompress(packed, None)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestLevelRanges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		m     Method
		level int
		ok    bool
	}{
		{"zlib min", Zlib, 0, true},
		{"zlib max", Zlib, 9, true},
		{"zlib below", Zlib, -2, false},
		{"zlib above", Zlib, 10, false},
		{"lzma max", Lzma, 9, true},
		{"lzma above", Lzma, 12, false},
		{"zstd min", Zstd, 1, true},
		{"zstd max", Zstd, 4, true},
		{"zstd zero", Zstd, 0, false},
		{"zstd above", Zstd, 5, false},
		{"none ignores level", None, 42, true},
		{"default accepted", Lzma, DefaultLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := CheckLevel(tt.m, tt.level)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestCompressAtEveryLevel(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte("level sweep "), 512)

	for level := 0; level <= 9; level++ {
		for _, m := range []Method{Zlib, Lzma} {
			packed, err := Compress(data, m, level)
			require.NoError(t, err, "%s level %d", m, level)
			got, err := Decompress(packed, m)
			require.NoError(t, err)
			require.Equal(t, data, got)
		}
	}
	for level := 1; level <= 4; level++ {
		packed, err := Compress(data, Zstd, level)
		require.NoError(t, err)
		got, err := Decompress(packed, Zstd)
		require.NoError(t, err)
		require.Equal(t, data, got)
	}
}

func TestUnknownMethod(t *testing.T) {
	t.Parallel()

	_, err := Compress([]byte("x"), Method("brotli"), DefaultLevel)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Decompress([]byte("x"), Method(""))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Parse("snappy")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	m, err := Parse("zlib")
	require.NoError(t, err)
	assert.Equal(t, Zlib, m)
}

func TestDecompressCorruptInput(t *testing.T) {
	t.Parallel()

	junk := []byte("definitely not a compressed stream")
	for _, m := range []Method{Zlib, Lzma, Zstd} {
		t.Run(string(m), func(t *testing.T) {
			t.Parallel()

			_, err := Decompress(junk, m)
			assert.ErrorIs(t, err, ErrCorruptData)
		})
	}
}

func TestDecompressTruncatedStream(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte("truncate me "), 1024)
	for _, m := range []Method{Zlib, Lzma, Zstd} {
		t.Run(string(m), func(t *testing.T) {
			t.Parallel()

			packed, err := Compress(data, m, DefaultLevel)
			require.NoError(t, err)

			_, err = Decompress(packed[:len(packed)/2], m)
			assert.ErrorIs(t, err, ErrCorruptData)
		})
	}
}

func TestIncompressibleInputStillRoundTrips(t *testing.T) {
	t.Parallel()

	// Already-dense input tends to grow under compression; that is legal
	// and must still round-trip.
	data := make([]byte, 512)
	for i := range data {
		data[i] = byte(i*131 + 17)
	}

	levels := map[Method]int{Zlib: 9, Lzma: 9, Zstd: 4}
	for m, level := range levels {
		packed, err := Compress(data, m, level)
		require.NoError(t, err)

		got, err := Decompress(packed, m)
		require.NoError(t, err)
		require.Equal(t, data, got)
	}
}
