// ABOUTME: Resource lookup errors
// ABOUTME: NotFoundError matches fs.ErrNotExist for errors.Is checks
package resource

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrInvalidName is returned for blank or malformed resource names
var ErrInvalidName = errors.New("invalid resource name")

// NotFoundError reports a resource name with no backing file
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.Name)
}

// Is lets errors.Is(err, fs.ErrNotExist) match
func (e *NotFoundError) Is(target error) bool {
	return target == fs.ErrNotExist
}
