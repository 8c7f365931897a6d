package romgfx

import (
	"errors"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/bodgit/romgfx/decompress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchOutput(t *testing.T) {
	assert.Equal(t, "out_01F000.png", batchOutput("out.png", 0x1f000))
	assert.Equal(t, filepath.Join("dir", "title_000000.gif"), batchOutput(filepath.Join("dir", "title.gif"), 0))
}

func TestExtractAll(t *testing.T) {
	dir := t.TempDir()
	second := []byte{0xe7, 0xff, 0x11, 0xff}
	rom := writeROM(t, dir, testStream, second)
	out := filepath.Join(dir, "gfx.png")

	e := testExtractor(t, filepath.Join(dir, "romgfx.db"))
	require.NoError(t, e.ExtractAll(rom, Options{Output: out}, []int64{0, int64(len(testStream))}))

	b, err := ioutil.ReadFile(filepath.Join(dir, "gfx_000000.png.bin"))
	require.NoError(t, err)
	assert.Len(t, b, 512)

	b, err = ioutil.ReadFile(filepath.Join(dir, "gfx_000006.png.bin"))
	require.NoError(t, err)
	assert.Len(t, b, 1024)

	entries, err := e.Catalog().List()
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestExtractAllError(t *testing.T) {
	dir := t.TempDir()
	rom := writeROM(t, dir, testStream, []byte{0xc0, 0x01, 0xff})

	err := testExtractor(t, "").ExtractAll(rom, Options{Output: filepath.Join(dir, "gfx.png")}, []int64{0, int64(len(testStream))})
	require.Error(t, err)
	assert.True(t, errors.Is(err, decompress.ErrOutOfRange))
}

func TestExtractAllEmpty(t *testing.T) {
	dir := t.TempDir()
	rom := writeROM(t, dir, testStream)

	assert.NoError(t, testExtractor(t, "").ExtractAll(rom, Options{Output: filepath.Join(dir, "gfx.png")}, nil))
}
