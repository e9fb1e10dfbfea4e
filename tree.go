package relay

import (
	"fmt"
	"strings"
)

// node is one depth level of the routing tree. Each node owns an exact-match
// branch per literal segment, at most one parameter branch, and at most one
// catch-all branch. The tree is built during registration and is immutable
// once serving starts, so lookups need no synchronization.
type node struct {
	// literal segment text to child node
	literal map[string]*node

	// the single parameter branch at this depth; matching is deterministic
	// by depth, not by name, so a second param name here is a registration
	// conflict
	param     *node
	paramName string

	// the catch-all branch; consumes all remaining segments, possibly zero
	catchAll     *node
	catchAllName string

	// terminal endpoint for paths ending at this node
	ep      Endpoint
	pattern string
}

// routeParams collects captures during lookup. Keys and values are appended
// together and truncated together when a branch backtracks.
type routeParams struct {
	keys   []string
	values []string
}

// insert walks and extends the tree one segment at a time, returning the
// terminal node for the pattern. It never touches endpoints; the caller
// decides whether occupying the terminal is a conflict.
func (n *node) insert(segments []segment, pattern string) (*node, error) {
	cur := n
	for _, seg := range segments {
		switch seg.kind {
		case segLiteral:
			if cur.literal == nil {
				cur.literal = make(map[string]*node)
			}
			next := cur.literal[seg.value]
			if next == nil {
				next = &node{}
				cur.literal[seg.value] = next
			}
			cur = next

		case segParam:
			if cur.param == nil {
				cur.param = &node{}
				cur.paramName = seg.value
			} else if cur.paramName != seg.value {
				return nil, fmt.Errorf("%w: param %q vs existing %q in %q",
					ErrRouteConflict, seg.value, cur.paramName, pattern)
			}
			cur = cur.param

		case segCatchAll:
			if cur.catchAll == nil {
				cur.catchAll = &node{}
				cur.catchAllName = seg.value
			} else if cur.catchAllName != seg.value {
				return nil, fmt.Errorf("%w: catch-all %q vs existing %q in %q",
					ErrRouteConflict, seg.value, cur.catchAllName, pattern)
			}
			cur = cur.catchAll
		}
	}
	return cur, nil
}

// findRoute resolves a concrete path against the tree. Precedence at each
// depth is fixed: exact literal, then parameter, then catch-all. A branch
// that dead-ends backtracks, unwinding any captures it recorded, so the
// result is deterministic no matter how routes were registered.
func (n *node) findRoute(segments []string, ps *routeParams) *node {
	if len(segments) == 0 {
		if n.ep != nil {
			return n
		}
		// a catch-all still matches with zero remaining segments
		if n.catchAll != nil && n.catchAll.ep != nil {
			n.capture(ps, "")
			return n.catchAll
		}
		return nil
	}

	seg := segments[0]

	if next := n.literal[seg]; next != nil {
		if fin := next.findRoute(segments[1:], ps); fin != nil {
			return fin
		}
	}

	// params match any single non-empty segment
	if n.param != nil && seg != "" {
		ps.keys = append(ps.keys, n.paramName)
		ps.values = append(ps.values, seg)
		if fin := n.param.findRoute(segments[1:], ps); fin != nil {
			return fin
		}
		ps.keys = ps.keys[:len(ps.keys)-1]
		ps.values = ps.values[:len(ps.values)-1]
	}

	if n.catchAll != nil && n.catchAll.ep != nil {
		n.capture(ps, strings.Join(segments, "/"))
		return n.catchAll
	}

	return nil
}

// capture records the catch-all value unless the branch is unnamed.
func (n *node) capture(ps *routeParams, value string) {
	if n.catchAllName == "" {
		return
	}
	ps.keys = append(ps.keys, n.catchAllName)
	ps.values = append(ps.values, value)
}

// walk visits every terminal node in the tree.
func (n *node) walk(fn func(nd *node)) {
	if n.ep != nil {
		fn(n)
	}
	for _, child := range n.literal {
		child.walk(fn)
	}
	if n.param != nil {
		n.param.walk(fn)
	}
	if n.catchAll != nil {
		n.catchAll.walk(fn)
	}
}
