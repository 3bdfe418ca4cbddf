package api

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreV1OmitsOffsetFields(t *testing.T) {
	b, err := json.Marshal(ScoreV1{Motif: "m", Sequence: "s", Score: Float(2)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"motif":"m","sequence":"s","score":2}`, string(b))

	off := -1
	b, err = json.Marshal(ScoreV1{Motif: "m", Sequence: "s", Score: Float(1.5), Strand: "-", Offset: &off})
	require.NoError(t, err)
	assert.JSONEq(t, `{"motif":"m","sequence":"s","score":1.5,"strand":"-","offset":-1}`, string(b))
}

func TestSimilarityNaNIsNull(t *testing.T) {
	b, err := json.Marshal(SimilarityV1{Motif: "m", Sequence: "s", Similarity: Float(math.NaN())})
	require.NoError(t, err)
	assert.JSONEq(t, `{"motif":"m","sequence":"s","similarity":null}`, string(b))
	assert.Nil(t, Float(math.Inf(1)))
}
