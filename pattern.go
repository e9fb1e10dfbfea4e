package relay

import (
	"fmt"
	"strings"
)

type segmentKind uint8

const (
	segLiteral  segmentKind = iota // /home
	segParam                       // /:id
	segCatchAll                    // /*rest
)

// segment is one compiled specifier of a route pattern. For literals value
// is the exact segment text; for params and catch-alls it is the capture
// name.
type segment struct {
	kind  segmentKind
	value string
}

// parsePattern compiles a route pattern string into its ordered segment
// specifiers. Patterns are '/'-delimited; a segment beginning with ':' is a
// named parameter, one beginning with '*' is a catch-all. Compilation is
// pure: it happens once at registration time and has no side effects.
//
// Trailing slashes are normalized away, so "/a/" registers the same route
// as "/a"; how concrete paths with trailing slashes match is a router-level
// policy.
func parsePattern(pattern string) ([]segment, error) {
	if pattern == "" || pattern[0] != '/' {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}

	trimmed := strings.TrimPrefix(pattern, "/")
	trimmed = strings.TrimSuffix(trimmed, "/")
	if trimmed == "" {
		return nil, nil // root
	}

	parts := strings.Split(trimmed, "/")
	segments := make([]segment, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))

	for i, part := range parts {
		switch {
		case strings.HasPrefix(part, ":"):
			name := part[1:]
			if name == "" {
				return nil, fmt.Errorf("%w: %q has an unnamed param", ErrInvalidPattern, pattern)
			}
			if _, dup := seen[name]; dup {
				return nil, fmt.Errorf("%w: %q captures %q twice", ErrDuplicateName, pattern, name)
			}
			seen[name] = struct{}{}
			segments = append(segments, segment{kind: segParam, value: name})

		case strings.HasPrefix(part, "*"):
			if i != len(parts)-1 {
				return nil, fmt.Errorf("%w: %q", ErrMisplacedWildcard, pattern)
			}
			name := part[1:]
			if name != "" {
				if _, dup := seen[name]; dup {
					return nil, fmt.Errorf("%w: %q captures %q twice", ErrDuplicateName, pattern, name)
				}
				seen[name] = struct{}{}
			}
			segments = append(segments, segment{kind: segCatchAll, value: name})

		default:
			segments = append(segments, segment{kind: segLiteral, value: part})
		}
	}

	return segments, nil
}

// splitPath splits a concrete request path into its segments. With lenient
// trailing-slash handling a single trailing empty segment is dropped, so
// "/a/" resolves like "/a". In strict mode it is kept; since patterns
// normalize trailing slashes away at registration, the extra segment can
// only be consumed by a catch-all, and otherwise the path does not resolve.
func splitPath(path string, strictSlash bool) []string {
	trimmed := strings.TrimPrefix(path, "/")
	if !strictSlash {
		trimmed = strings.TrimSuffix(trimmed, "/")
	}
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
