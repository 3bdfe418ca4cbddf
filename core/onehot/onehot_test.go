package onehot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convscan/core/scanerr"
)

func TestEncodeStrict(t *testing.T) {
	x := Encode([]byte("ACgtN"))
	assert.Equal(t, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
		0, 0, 0, 0,
	}, x.RawMatrix().Data)
}

func TestEncodeIUPAC(t *testing.T) {
	x := EncodeIUPAC([]byte("RN-"))
	assert.Equal(t, []float64{
		0.5, 0, 0.5, 0,
		0.25, 0.25, 0.25, 0.25,
		0, 0, 0, 0,
	}, x.RawMatrix().Data)
}

func TestIsBase(t *testing.T) {
	for _, b := range []byte("ACGTacgt") {
		assert.True(t, IsBase(b), string(b))
	}
	for _, b := range []byte("RYNX-") {
		assert.False(t, IsBase(b), string(b))
	}
}

func TestRevCompMatchesBytes(t *testing.T) {
	// AGTC -> GACT
	got := RevComp(Encode([]byte("AGTC")))
	assert.Equal(t, Encode([]byte("GACT")).RawMatrix().Data, got.RawMatrix().Data)
}

func TestValidate(t *testing.T) {
	s, err := Validate(" ac gn ")
	require.NoError(t, err)
	assert.Equal(t, "ACGN", s)

	_, err = Validate("ACXG")
	assert.ErrorContains(t, err, "invalid base 'X' at 3")

	_, err = Validate("  ")
	assert.Error(t, err)

	_, err = FilterFromConsensus("AZ")
	assert.Error(t, err)
}

func TestLoadTSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "motifs.tsv")
	require.NoError(t, os.WriteFile(path, []byte("#id consensus\nm1 acgt\n\nm2 NNA\n"), 0o644))

	ms, err := LoadTSV(path)
	require.NoError(t, err)
	require.Len(t, ms, 2)
	assert.Equal(t, "m1", ms[0].ID)
	assert.Equal(t, "ACGT", ms[0].Consensus)
	r, c := ms[1].Filter.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, AlphabetSize, c)
	assert.Len(t, Filters(ms), 2)
}

func TestLoadTSVErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.tsv")
	require.NoError(t, os.WriteFile(bad, []byte("m1 ACGT extra\n"), 0o644))
	_, err := LoadTSV(bad)
	assert.ErrorContains(t, err, "bad.tsv:1 bad field count")

	sym := filepath.Join(dir, "sym.tsv")
	require.NoError(t, os.WriteFile(sym, []byte("m1 ACGT\nm2 AC!T\n"), 0o644))
	_, err = LoadTSV(sym)
	assert.ErrorContains(t, err, "sym.tsv:2")

	_, err = LoadTSV(filepath.Join(dir, "missing.tsv"))
	assert.Error(t, err)
}

func TestNewMotifBuildsFilterFromConsensus(t *testing.T) {
	m, err := NewMotif("ap1", " tgaStca ")
	require.NoError(t, err)
	assert.Equal(t, "TGASTCA", m.Consensus)
	want, err := FilterFromConsensus("TGASTCA")
	require.NoError(t, err)
	assert.Equal(t, want.RawMatrix().Data, m.Filter.RawMatrix().Data)

	_, err = NewMotif("bad", "TGA!")
	assert.ErrorIs(t, err, scanerr.ErrConfiguration)
	assert.Contains(t, err.Error(), "motif bad")
}

func TestMask(t *testing.T) {
	assert.Equal(t, byte(1|4), Mask('r'))
	assert.Equal(t, byte(15), Mask('N'))
	assert.Equal(t, byte(0), Mask('X'))
}
