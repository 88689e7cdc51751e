// Package sandbox implements spec.md §4.6: module-path authorization
// against a caller-supplied allow-list, a closed dangerous-pattern filter,
// and a recursive safe-module wrapper over dotted, Python-style import
// paths.
package sandbox

import "strings"

// DangerousPatterns is the closed enumeration of §4.6: any path component
// containing one of these substrings is masked unless that exact pattern
// (or the component itself) was explicitly allow-listed.
var DangerousPatterns = []string{
	"_os", "os", "subprocess", "_subprocess", "pty", "system", "popen",
	"spawn", "shutil", "sys", "pathlib", "io", "socket", "compile", "eval",
	"exec", "multiprocessing",
}

// MatchDangerousPattern reports whether component contains one of
// DangerousPatterns, returning the matched pattern.
func MatchDangerousPattern(component string) (string, bool) {
	for _, p := range DangerousPatterns {
		if strings.Contains(component, p) {
			return p, true
		}
	}
	return "", false
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// prefixes returns every dotted prefix of path, including path itself:
// "a.b.c" -> ["a", "a.b", "a.b.c"].
func prefixes(path string) []string {
	parts := strings.Split(path, ".")
	out := make([]string, len(parts))
	for i := range parts {
		out[i] = strings.Join(parts[:i+1], ".")
	}
	return out
}

// hasUnallowedDangerousComponent reports the first path component that
// matches a dangerous pattern and was not itself explicitly allow-listed
// (by bare component name or by matched pattern name).
func hasUnallowedDangerousComponent(path string, allowlist []string) (string, bool) {
	for _, component := range strings.Split(path, ".") {
		pat, bad := MatchDangerousPattern(component)
		if !bad {
			continue
		}
		if contains(allowlist, component) || contains(allowlist, pat) {
			continue
		}
		return pat, true
	}
	return "", false
}

// Authorized implements §4.6's import-time rule: "authorized iff (a) the
// allow-list contains '*', or (b) some prefix of A.B.C is in the
// allow-list AND no dangerous-pattern substring appears in any path
// component that is not itself explicitly allow-listed." (a) grants
// import-time authorization outright, dangerous module names included —
// the dangerous-pattern filter still applies to every attribute access
// afterwards via AttrAuthorized regardless of how the import itself was
// authorized.
func Authorized(path string, allowlist []string) bool {
	if contains(allowlist, "*") {
		return true
	}
	prefixOK := false
	for _, p := range prefixes(path) {
		if contains(allowlist, p) {
			prefixOK = true
			break
		}
	}
	if !prefixOK {
		return false
	}
	_, bad := hasUnallowedDangerousComponent(path, allowlist)
	return !bad
}

// AttrAuthorized implements the per-attribute-access half of §4.6: "so
// random._os fails even though random is permitted." modulePath is the
// dotted path of the module the attribute is being read from; attr is the
// single attribute name being accessed.
func AttrAuthorized(modulePath, attr string, allowlist []string) bool {
	full := modulePath + "." + attr
	_, bad := hasUnallowedDangerousComponent(full, allowlist)
	return !bad
}
