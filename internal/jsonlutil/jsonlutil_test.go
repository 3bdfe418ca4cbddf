package jsonlutil

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pair struct {
	K string `json:"k"`
	V int    `json:"v"`
}

func TestStartEncodesOnePerLine(t *testing.T) {
	var buf bytes.Buffer
	in, done := Start(&buf, 2, func(i int) pair { return pair{K: "n", V: i} }, func(error) bool { return false })
	for i := 0; i < 3; i++ {
		in <- i
	}
	close(in)
	require.NoError(t, <-done)
	assert.Equal(t, "{\"k\":\"n\",\"v\":0}\n{\"k\":\"n\",\"v\":1}\n{\"k\":\"n\",\"v\":2}\n", buf.String())
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestStartReportsAndSuppresses(t *testing.T) {
	in, done := Start(failWriter{}, 1, func(i int) int { return i }, func(error) bool { return false })
	in <- 1
	close(in)
	assert.EqualError(t, <-done, "disk full")

	in, done = Start(failWriter{}, 1, func(i int) int { return i }, func(error) bool { return true })
	in <- 1
	close(in)
	assert.NoError(t, <-done)
}
