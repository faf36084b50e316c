package store

import (
	"context"
	"errors"
	"testing"
)

type scanFn func(dest ...any) error

func (f scanFn) Scan(dest ...any) error { return f(dest...) }

type sliceRows struct {
	vals   []int64
	i      int
	err    error
	closed bool
}

func (r *sliceRows) Next() bool {
	r.i++
	return r.i <= len(r.vals)
}

func (r *sliceRows) Scan(dest ...any) error {
	*(dest[0].(*int64)) = r.vals[r.i-1]
	return nil
}

func (r *sliceRows) Err() error { return r.err }
func (r *sliceRows) Close()     { r.closed = true }

type stubQ struct {
	rows    *sliceRows
	row     Row
	queryEr error
}

func (q stubQ) Query(context.Context, string, ...any) (Rows, error) {
	if q.queryEr != nil {
		return nil, q.queryEr
	}
	return q.rows, nil
}

func (q stubQ) QueryRow(context.Context, string, ...any) Row { return q.row }

func scanInt(r Row) (int64, error) {
	var v int64
	err := r.Scan(&v)
	return v, err
}

func TestScalar(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	q := stubQ{row: scanFn(func(dest ...any) error { *(dest[0].(*int64)) = 7; return nil })}
	if got, err := Scalar[int64](ctx, q, "select count(*) from sites"); err != nil || got != 7 {
		t.Fatalf("Scalar = %d, %v", got, err)
	}

	boom := errors.New("relation does not exist")
	q = stubQ{row: scanFn(func(...any) error { return boom })}
	if got, err := Scalar[int64](ctx, q, "select 1"); !errors.Is(err, boom) || got != 0 {
		t.Fatalf("Scalar = %d, %v", got, err)
	}
}

func TestMany(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	rows := &sliceRows{vals: []int64{3, 1, 4}}
	got, err := Many(ctx, stubQ{rows: rows}, scanInt, "select n from t")
	if err != nil || len(got) != 3 || got[2] != 4 {
		t.Fatalf("Many = %v, %v", got, err)
	}
	if !rows.closed {
		t.Fatal("rows must be closed")
	}

	empty, err := Many(ctx, stubQ{rows: &sliceRows{}}, scanInt, "select n from t")
	if err != nil || empty != nil {
		t.Fatalf("empty = %#v, %v", empty, err)
	}

	iterErr := errors.New("conn reset")
	if _, err := Many(ctx, stubQ{rows: &sliceRows{vals: []int64{1}, err: iterErr}}, scanInt, "x"); !errors.Is(err, iterErr) {
		t.Fatalf("rows.Err not surfaced: %v", err)
	}

	qErr := errors.New("syntax error")
	if _, err := Many(ctx, stubQ{queryEr: qErr}, scanInt, "x"); !errors.Is(err, qErr) {
		t.Fatalf("query err not surfaced: %v", err)
	}
}
