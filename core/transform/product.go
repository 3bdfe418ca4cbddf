package transform

import (
	"gonum.org/v1/gonum/mat"

	"convscan/core/batch"
	"convscan/core/scanerr"
)

// MatrixProduct computes mat1 × mat2 a batch of mat1 rows at a time.
func MatrixProduct(mat1, mat2 *mat.Dense, batchSize int) (*mat.Dense, error) {
	const op = "transform.MatrixProduct"
	r1, c1 := mat1.Dims()
	r2, c2 := mat2.Dims()
	if c1 != r2 {
		return nil, scanerr.Configf(op, "inner dimensions differ: %dx%d × %dx%d", r1, c1, r2, c2)
	}
	rows, err := batch.Run([][][]float64{denseRows(mat1)}, batch.Options{BatchSize: batchSize},
		func(b batch.Batch[[]float64]) ([][]float64, error) {
			in := mat.NewDense(b.Len(), c1, nil)
			for i, r := range b.Inputs[0] {
				in.SetRow(i, r)
			}
			var p mat.Dense
			p.Mul(in, mat2)
			return denseRows(&p), nil
		})
	if err != nil {
		return nil, err
	}
	return rowsDense(rows), nil
}
