//go:build !windows

package walk

// IsHidden reports whether name is a dotfile.
func IsHidden(_ string, name string) bool {
	return len(name) > 0 && name[0] == '.'
}
