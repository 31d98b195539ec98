package model

import "fmt"

// Access is the permission level a backend grants the current session.
type Access string

const (
	AccessOwner  Access = "owner"
	AccessEditor Access = "editor"
	AccessViewer Access = "viewer"
)

// ParseAccess converts s to an Access level. An empty string means owner,
// which is what local files and new graphs get.
func ParseAccess(s string) (Access, error) {
	switch Access(s) {
	case "":
		return AccessOwner, nil
	case AccessOwner, AccessEditor, AccessViewer:
		return Access(s), nil
	}
	return "", fmt.Errorf("invalid access level: %q (must be one of: owner, editor, viewer)", s)
}

// CanWrite reports whether the level permits mutations.
func (a Access) CanWrite() bool { return a == AccessOwner || a == AccessEditor }
