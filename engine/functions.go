package engine

import (
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/viant/neighbourhood/vector"
	sqlite "modernc.org/sqlite"
)

// RegisterPointFunctions registers kd_l2, kd_within and kd_dims with the
// driver so they are available on new connections opened after this call.
// Note: existing open connections will not see new functions.
func RegisterPointFunctions(_ *sql.DB) error {
	// Idempotent registration; driver rejects duplicates but we ignore errors silently here.
	_ = sqlite.RegisterDeterministicScalarFunction("kd_l2", 2, kdL2Impl)
	_ = sqlite.RegisterDeterministicScalarFunction("kd_within", 3, kdWithinImpl)
	_ = sqlite.RegisterDeterministicScalarFunction("kd_dims", 1, kdDimsImpl)
	return nil
}

func asPoint(arg driver.Value) ([]float32, error) {
	switch v := arg.(type) {
	case nil:
		return nil, nil
	case []byte:
		return vector.DecodePoint(v)
	default:
		return nil, fmt.Errorf("kd: unsupported argument type %T for point; want BLOB", arg)
	}
}

func asRadius(arg driver.Value) (float64, error) {
	switch v := arg.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("kd_within: unsupported radius type %T", arg)
	}
}

func pointPair(name string, args []driver.Value) ([]float32, []float32, error) {
	a, err := asPoint(args[0])
	if err != nil {
		return nil, nil, err
	}
	b, err := asPoint(args[1])
	if err != nil {
		return nil, nil, err
	}
	if a != nil && b != nil && len(a) != len(b) {
		return nil, nil, fmt.Errorf("%s: dimension mismatch %d vs %d", name, len(a), len(b))
	}
	return a, b, nil
}

func kdL2Impl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("kd_l2: expected 2 arguments, got %d", len(args))
	}
	a, b, err := pointPair("kd_l2", args)
	if err != nil {
		return nil, err
	}
	if a == nil || b == nil {
		return nil, nil
	}
	return vector.L2Distance(a, b)
}

func kdWithinImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("kd_within: expected 3 arguments, got %d", len(args))
	}
	a, b, err := pointPair("kd_within", args)
	if err != nil {
		return nil, err
	}
	if a == nil || b == nil || args[2] == nil {
		return nil, nil
	}
	eps, err := asRadius(args[2])
	if err != nil {
		return nil, err
	}
	d, err := vector.L2Distance(a, b)
	if err != nil {
		return nil, err
	}
	if d <= eps {
		return int64(1), nil
	}
	return int64(0), nil
}

func kdDimsImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("kd_dims: expected 1 argument, got %d", len(args))
	}
	p, err := asPoint(args[0])
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	return int64(len(p)), nil
}
