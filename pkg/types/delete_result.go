package types

// DeleteResult holds the outcome of a delete attempt for a single entry
type DeleteResult struct {
	Path    string `json:"path"`
	Deleted bool   `json:"deleted"`
	Error   error  `json:"error,omitempty"`
}
