package sandpath

import "gonum.org/v1/gonum/mat"

// ExtractTrajectory converts the solver's raw joint matrix (rows = steps,
// columns = joints) into a timestamped trajectory. Row i is stamped at
// i × timeStep, so elapsed times strictly increase by construction.
func ExtractTrajectory(result *mat.Dense, jointNames []string, timeStep float64) ResultTrajectory {
	rows, cols := result.Dims()
	samples := make([]TrajectorySample, 0, rows)
	for i := 0; i < rows; i++ {
		positions := make([]float64, cols)
		mat.Row(positions, i, result)
		samples = append(samples, TrajectorySample{
			Positions:   positions,
			ElapsedTime: float64(i) * timeStep,
		})
	}
	return ResultTrajectory{JointNames: jointNames, Samples: samples}
}
