// ABOUTME: Version and product identification constants
// ABOUTME: Shown in the TUI header and the startup log line
package version

const (
	// Version is the release version
	Version = "0.1.0"

	// Product is the application name
	Product = "PlaySound"

	// Manufacturer is the publisher name
	Manufacturer = "Resonate"
)
