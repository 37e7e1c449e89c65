package routing

// AuthPrefix is the authentication section. Nothing under it is protected.
const AuthPrefix = "/auth"

// protectedPrefixes require a session, in every locale's spelling.
var protectedPrefixes = []string{
	"/protected",
	"/protegido",
	"/dashboard",
	"/admin",
}

// IsProtected reports whether a normalized (locale-stripped) path requires an
// authenticated session. Prefixes match whole segments of the cleaned path.
func IsProtected(normalizedPath string) bool {
	normalizedPath = CleanPath(normalizedPath)
	if hasSegmentPrefix(normalizedPath, AuthPrefix) {
		return false
	}
	for _, p := range protectedPrefixes {
		if hasSegmentPrefix(normalizedPath, p) {
			return true
		}
	}
	return false
}

func hasSegmentPrefix(path, prefix string) bool {
	if len(path) < len(prefix) || path[:len(prefix)] != prefix {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}
