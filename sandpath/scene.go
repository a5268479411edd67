package sandpath

import (
	"fmt"

	"go.viam.com/rdk/spatialmath"
)

// BuildScene registers the cylindrical work-piece with the environment
// and rigidly attaches it to the configured parent frame. Registration
// puts the object in the environment's database; the attachment is what
// includes it in collision checks.
func BuildScene(env Environment, cfg SceneConfig) error {
	geom, err := spatialmath.NewCapsule(spatialmath.NewZeroPose(), cfg.Radius, cfg.Length, cfg.PartName)
	if err != nil {
		return fmt.Errorf("build part geometry: %w", err)
	}

	obj := &AttachableObject{Name: cfg.PartName, Geometry: geom}
	if err := env.AddAttachableObject(obj); err != nil {
		return fmt.Errorf("%w: add object %q: %s", ErrAttachmentRejected, cfg.PartName, err)
	}

	body := AttachedBody{
		ObjectName: cfg.PartName,
		ParentLink: cfg.ParentFrame,
		Transform:  spatialmath.NewPoseFromPoint(cfg.Offset),
	}
	if err := env.AttachBody(body); err != nil {
		return fmt.Errorf("%w: attach %q to %q: %s", ErrAttachmentRejected, cfg.PartName, cfg.ParentFrame, err)
	}
	return nil
}
