package sandpath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"

	"go.viam.com/rdk/spatialmath"
)

const frameEps = 1e-9

func TestGeneratePath_Count(t *testing.T) {
	cfg := DefaultConfig().Path
	path := GeneratePath(cfg)

	// 5 slices × 25 angular samples (0 and 2π both emitted).
	if len(path) != 125 {
		t.Fatalf("expected 125 waypoints, got %d", len(path))
	}

	samplesPerSlice := len(path) / cfg.Slices
	if samplesPerSlice != 25 {
		t.Errorf("expected 25 samples per slice, got %d", samplesPerSlice)
	}
}

func TestGeneratePath_SamplesPerSlice(t *testing.T) {
	for _, tc := range []struct {
		name      string
		angleStep float64
		want      int // per-slice sample count, ⌈2π/Δθ⌉+1
	}{
		{"exact divisor pi/12", math.Pi / 12, 25},
		{"exact divisor pi/2", math.Pi / 2, 5},
		{"non-divisor 1 rad", 1.0, 8},
		{"non-divisor 2.5 rad", 2.5, 4},
	} {
		t.Run(tc.name, func(t *testing.T) {
			path := GeneratePath(PathConfig{
				Radius:      0.2,
				Slices:      3,
				SliceHeight: 0.1,
				AngleStep:   tc.angleStep,
			})
			if len(path) != 3*tc.want {
				t.Errorf("got %d waypoints, want %d slices × %d", len(path), 3, tc.want)
			}
		})
	}
}

func TestGeneratePath_RingClosure(t *testing.T) {
	cfg := DefaultConfig().Path
	path := GeneratePath(cfg)
	perSlice := len(path) / cfg.Slices

	for slice := 0; slice < cfg.Slices; slice++ {
		first := path[slice*perSlice]
		last := path[(slice+1)*perSlice-1]
		if d := first.Position.Sub(last.Position).Norm(); d > 1e-9 {
			t.Errorf("slice %d: ring endpoints differ by %g; angle 0 and 2π should coincide", slice, d)
		}
	}
}

func TestGeneratePath_FramesOrthonormal(t *testing.T) {
	path := GeneratePath(DefaultConfig().Path)

	for i, wp := range path {
		for _, axis := range []struct {
			name string
			v    r3.Vector
		}{{"x", wp.XAxis}, {"y", wp.YAxis}, {"z", wp.ZAxis}} {
			if math.Abs(axis.v.Norm()-1) > frameEps {
				t.Fatalf("waypoint %d: %s-axis not unit length (%g)", i, axis.name, axis.v.Norm())
			}
		}
		if d := math.Abs(wp.XAxis.Dot(wp.YAxis)); d > frameEps {
			t.Fatalf("waypoint %d: x·y = %g", i, d)
		}
		if d := math.Abs(wp.YAxis.Dot(wp.ZAxis)); d > frameEps {
			t.Fatalf("waypoint %d: y·z = %g", i, d)
		}
		if d := math.Abs(wp.XAxis.Dot(wp.ZAxis)); d > frameEps {
			t.Fatalf("waypoint %d: x·z = %g", i, d)
		}
		// Right-handed: x = y × z.
		if d := wp.XAxis.Sub(wp.YAxis.Cross(wp.ZAxis)).Norm(); d > frameEps {
			t.Fatalf("waypoint %d: x differs from y×z by %g", i, d)
		}
	}
}

func TestGeneratePath_ZAxisPointsAtCylinderAxis(t *testing.T) {
	cfg := DefaultConfig().Path
	path := GeneratePath(cfg)
	perSlice := len(path) / cfg.Slices
	originPt := cfg.Origin.Point()

	for i, wp := range path {
		slice := i / perSlice
		center := r3.Vector{X: originPt.X, Y: originPt.Y, Z: originPt.Z + float64(slice)*cfg.SliceHeight}
		want := center.Sub(wp.Position).Normalize()
		if d := wp.ZAxis.Sub(want).Norm(); d > 1e-9 {
			t.Fatalf("waypoint %d: z-axis off cylinder axis direction by %g", i, d)
		}
	}
}

func TestGeneratePath_NilOriginDefaultsToIdentity(t *testing.T) {
	path := GeneratePath(PathConfig{Radius: 1, Slices: 1, SliceHeight: 0.1, AngleStep: math.Pi / 2})
	if len(path) == 0 {
		t.Fatal("no waypoints generated")
	}
	// Angle 0 sample sits on the +X surface of a cylinder at the origin.
	want := r3.Vector{X: 1}
	if d := path[0].Position.Sub(want).Norm(); d > 1e-9 {
		t.Errorf("first waypoint at %v, want %v", path[0].Position, want)
	}
}

func TestWaypointPose_RoundTrip(t *testing.T) {
	path := GeneratePath(DefaultConfig().Path)
	wp := path[7]

	pose, err := wp.Pose()
	if err != nil {
		t.Fatalf("pose conversion: %v", err)
	}
	if d := pose.Point().Sub(wp.Position).Norm(); d > frameEps {
		t.Errorf("pose translation off by %g", d)
	}

	// The pose's orientation must map the base axes onto the waypoint axes.
	rm := pose.Orientation().RotationMatrix()
	gotZ := r3.Vector{X: rm.At(0, 2), Y: rm.At(1, 2), Z: rm.At(2, 2)}
	if d := gotZ.Sub(wp.ZAxis).Norm(); d > 1e-6 {
		t.Errorf("rotation matrix z column off by %g", d)
	}

	// Quaternion of the frame must be unit length.
	q := pose.Orientation().Quaternion()
	norm := math.Sqrt(q.Real*q.Real + q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
	if math.Abs(norm-1) > 1e-6 {
		t.Errorf("quaternion norm %g", norm)
	}

	_ = spatialmath.PoseToProtobuf(pose) // must be representable on the wire
}
