package scene

import (
	"errors"
	"fmt"

	"github.com/Faultbox/glrimport/pkg/formats"
)

// Scene assembly errors.
var (
	ErrDanglingIndex = errors.New("dangling vertex index")
	ErrSceneAssembly = errors.New("scene assembly error")
)

// AssemblyError locates a structural problem found while assembling or
// validating a scene.
type AssemblyError struct {
	Group    int   // Mesh group index
	Triangle int   // Triangle index within the group, or -1
	Offset   int64 // Byte offset of the offending record, or -1
	Record   formats.GLRRecordKind
	Expected string
	Actual   string
	Err      error
}

func (e *AssemblyError) Error() string {
	msg := fmt.Sprintf("scene: %v in group %d", e.Err, e.Group)
	if e.Triangle >= 0 {
		msg += fmt.Sprintf(", triangle %d", e.Triangle)
	}
	if e.Offset >= 0 {
		msg += fmt.Sprintf(" (%s record at offset %d)", e.Record, e.Offset)
	}
	if e.Expected != "" || e.Actual != "" {
		msg += fmt.Sprintf(": expected %s, got %s", e.Expected, e.Actual)
	}
	return msg
}

func (e *AssemblyError) Unwrap() error {
	return e.Err
}
