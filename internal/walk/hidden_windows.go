//go:build windows

package walk

import (
	"golang.org/x/sys/windows"
)

// IsHidden reports dotfiles and anything carrying the FILE_ATTRIBUTE_HIDDEN
// bit, so a readable .git folder is hidden on every platform.
func IsHidden(fullPath string, name string) bool {
	dot := len(name) > 0 && name[0] == '.'

	target := fullPath
	if target == "" {
		target = name
	}
	if target == "" {
		return false
	}

	ptr, err := windows.UTF16PtrFromString(target)
	if err != nil {
		return dot
	}
	attrs, err := windows.GetFileAttributes(ptr)
	if err != nil {
		return dot
	}
	return dot || attrs&windows.FILE_ATTRIBUTE_HIDDEN != 0
}
