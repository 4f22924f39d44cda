// ABOUTME: Embedded sound files shipped with the binary
// ABOUTME: Exposes them as a resource provider rooted at the sounds directory
package assets

import (
	"embed"

	"github.com/Resonate-Protocol/playsound-go/pkg/resource"
)

//go:embed sounds/*.wav
var soundFiles embed.FS

// Sounds returns a provider over the embedded sounds
func Sounds() *resource.FS {
	return resource.NewFS(soundFiles, "sounds")
}
