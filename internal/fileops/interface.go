package fileops

import "ferret/pkg/types"

// Operator defines the file operations offered next to browsing and searching.
// This allows for dependency injection in tests and other parts of the application
type Operator interface {
	// SetDryRun sets whether operations should be performed or just simulated
	SetDryRun(dryRun bool)

	// Open hands path to the platform's default application
	Open(path string) error

	// Delete removes files and folders, reporting each path separately
	Delete(paths []string) []types.DeleteResult
}

// Ensure Engine implements the Operator interface
var _ Operator = (*Engine)(nil)
