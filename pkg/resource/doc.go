// ABOUTME: Resource package documentation
// ABOUTME: Names the provider contract and the resource table
// Package resource resolves named assets to byte streams.
//
// A Provider answers Exists and Open for a name. FS implements it over any
// fs.FS, typically an embed.FS. Missing names fail with *NotFoundError, and
// blank names with ErrInvalidName.
package resource
