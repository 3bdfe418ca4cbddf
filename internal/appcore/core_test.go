package appcore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"convscan/core/batch"
	"convscan/core/scanerr"
	"convscan/internal/clibase"
	"convscan/internal/writers"
	"convscan/pkg/api"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitCancelled, ExitCode(fmt.Errorf("read: %w", context.Canceled)))
	assert.Equal(t, ExitUsage, ExitCode(scanerr.Configf("op", "bad")))
	assert.Equal(t, ExitUsage, ExitCode(scanerr.Preconditionf("op", "empty")))
	assert.Equal(t, ExitRuntime, ExitCode(errors.New("disk")))
}

func collect(t *testing.T, c clibase.Common, longest, size int, stderr io.Writer) ([]Group, error) {
	t.Helper()
	var groups []Group
	err := StreamRecords(context.Background(), c, longest, size, stderr, func(g Group) error {
		groups = append(groups, g)
		return nil
	})
	return groups, err
}

func groupIDs(g Group) []string {
	var ids []string
	for _, r := range g.Records {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestStreamRecordsSkipsEmptyAndWindows(t *testing.T) {
	fa := writeFile(t, "x.fa", ">a\nACGTACGTAC\n>empty\n>b\nGG\n")
	var stderr bytes.Buffer
	groups, err := collect(t, clibase.Common{SeqFiles: []string{fa}, Window: 6}, 3, 10, &stderr)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	// windows of 6 overlapping by motif length - 1
	assert.Equal(t, []string{"a:0-6", "a:4-10", "b"}, groupIDs(groups[0]))
	assert.Contains(t, stderr.String(), `WARN: skipping empty record "empty"`)
	assert.Len(t, groups[0].Encode(func(b []byte) *mat.Dense { return mat.NewDense(len(b), 1, nil) }), 3)
}

func TestStreamRecordsGroups(t *testing.T) {
	one := writeFile(t, "1.fa", ">r0\nA\n>r1\nC\n>r2\nG\n")
	two := writeFile(t, "2.fa", ">r3\nT\n>r4\nA\n")
	groups, err := collect(t, clibase.Common{SeqFiles: []string{one, two}}, 1, 2, io.Discard)
	require.NoError(t, err)
	require.Len(t, groups, 3)

	assert.Equal(t, 0, groups[0].Base)
	assert.Equal(t, []string{"r0", "r1"}, groupIDs(groups[0]))
	assert.Equal(t, 2, groups[1].Base)
	assert.Equal(t, []string{"r2", "r3"}, groupIDs(groups[1]))
	assert.Equal(t, 4, groups[2].Base)
	assert.Equal(t, []string{"r4"}, groupIDs(groups[2]))
}

func TestStreamRecordsStopsOnCallbackError(t *testing.T) {
	fa := writeFile(t, "x.fa", ">r0\nA\n>r1\nC\n>r2\nG\n")
	boom := errors.New("boom")
	calls := 0
	err := StreamRecords(context.Background(), clibase.Common{SeqFiles: []string{fa}}, 1, 1, io.Discard, func(Group) error {
		calls++
		return boom
	})
	assert.Same(t, boom, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, ExitRuntime, ExitCode(err))
}

func TestStreamRecordsErrors(t *testing.T) {
	var stderr bytes.Buffer
	_, err := collect(t, clibase.Common{SeqFiles: []string{filepath.Join(t.TempDir(), "none.fa")}}, 2, 1, &stderr)
	var ie *InputError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, ExitUsage, ExitCode(err))

	empty := writeFile(t, "e.fa", ">only\n")
	_, err = collect(t, clibase.Common{SeqFiles: []string{empty}, Quiet: true}, 2, 1, &stderr)
	assert.True(t, errors.Is(err, scanerr.ErrPrecondition))
	assert.Empty(t, stderr.String())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fa := writeFile(t, "x.fa", ">a\nACGT\n")
	err = StreamRecords(ctx, clibase.Common{SeqFiles: []string{fa}}, 2, 1, io.Discard, func(Group) error { return nil })
	assert.Equal(t, ExitCancelled, ExitCode(err))
}

func TestLoadMotifs(t *testing.T) {
	ms, err := LoadMotifs(clibase.Common{Motifs: []string{"acg", "TTA"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"acg", "TTA"}, IDs(ms))

	_, err = LoadMotifs(clibase.Common{Motifs: []string{"AC!"}})
	assert.Error(t, err)

	tsv := writeFile(t, "m.tsv", "# none\n")
	_, err = LoadMotifs(clibase.Common{MotifFile: tsv})
	assert.Error(t, err)
}

func TestGroupSize(t *testing.T) {
	assert.Equal(t, 50, GroupSize(clibase.Common{BatchSize: 50}))
	assert.Equal(t, 200, GroupSize(clibase.Common{BatchSize: 50, Workers: 4}))
}

func TestProgressAcrossGroups(t *testing.T) {
	var got []batch.Event
	p := NewProgress(3, func(ev batch.Event) { got = append(got, ev) })
	for _, base := range []int{0, 2, 4} {
		every, obs := p.For(base)
		assert.Equal(t, 1, every)
		obs.Notify(batch.Event{Stage: "filters", Done: 0, Total: 1})
		obs.Notify(batch.Event{Stage: "sequences", Done: 0, Total: 2})
		obs.Notify(batch.Event{Stage: "sequences", Done: 1, Total: 2})
	}
	assert.Equal(t, []batch.Event{
		{Stage: "sequences", Done: 0},
		{Stage: "sequences", Done: 3},
	}, got)

	var off *Progress
	every, obs := off.For(10)
	assert.Zero(t, every)
	assert.Nil(t, obs)
	assert.Nil(t, NewProgress(0, func(batch.Event) {}))
}

func TestEmit(t *testing.T) {
	var out, stderr bytes.Buffer
	start := func(w io.Writer, n int) (chan<- api.SimilarityV1, <-chan error) {
		return writers.Start(w, writers.FormatTSV, false, writers.SimilarityCodec(), n)
	}
	code := Emit(context.Background(), &out, &stderr, start, func(send func(api.SimilarityV1) error) error {
		return send(api.SimilarityV1{Motif: "m", Sequence: "s", Similarity: api.Float(1)})
	})
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "m\ts\t1\n", out.String())

	code = Emit(context.Background(), &out, &stderr, start, func(func(api.SimilarityV1) error) error {
		return scanerr.Configf("scan", "bad shape")
	})
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, stderr.String(), "bad shape")
}
