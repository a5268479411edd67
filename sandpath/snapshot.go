package sandpath

import (
	"encoding/json"

	"google.golang.org/protobuf/encoding/protojson"

	"go.viam.com/rdk/referenceframe"
)

// PathSnapshot renders the generated path as a list of poses in the given
// frame. The snapshot is a write-only observability output for
// visualization; nothing in the pipeline reads it back.
func PathSnapshot(path Path, frame string) ([]*referenceframe.PoseInFrame, error) {
	out := make([]*referenceframe.PoseInFrame, 0, len(path))
	for _, wp := range path {
		pose, err := wp.Pose()
		if err != nil {
			return nil, err
		}
		out = append(out, referenceframe.NewPoseInFrame(frame, pose))
	}
	return out, nil
}

// MarshalPathSnapshot serializes a path snapshot as a JSON array of pose
// messages.
func MarshalPathSnapshot(snapshot []*referenceframe.PoseInFrame) ([]byte, error) {
	raws := make([]json.RawMessage, 0, len(snapshot))
	for _, pif := range snapshot {
		b, err := protojson.Marshal(referenceframe.PoseInFrameToProtobuf(pif))
		if err != nil {
			return nil, err
		}
		raws = append(raws, json.RawMessage(b))
	}
	return json.Marshal(raws)
}
