package main

// Lorenz system parameters.
const (
	lorenzSigma = 10.0
	lorenzRho   = 28.0
	lorenzBeta  = 8.0 / 3.0
)

// lorenzStep advances xyz by one explicit Euler step of size dt.
func lorenzStep(dt float64, xyz [3]float64) [3]float64 {
	x, y, z := xyz[0], xyz[1], xyz[2]
	return [3]float64{
		x + dt*(lorenzSigma*(y-x)),
		y + dt*(x*(lorenzRho-z)-y),
		z + dt*(x*y-lorenzBeta*z),
	}
}

// lorenzTrajectory integrates from (1, 2, 3), discards the first warmup
// steps and returns the next n points.
func lorenzTrajectory(n, warmup int, dt float64) [][]float64 {
	if n <= 0 {
		return nil
	}
	point := [3]float64{1, 2, 3}
	for i := 0; i < warmup; i++ {
		point = lorenzStep(dt, point)
	}
	out := make([][]float64, n)
	for i := range out {
		point = lorenzStep(dt, point)
		out[i] = []float64{point[0], point[1], point[2]}
	}
	return out
}
