package ui

import (
	"net/url"
	"strings"

	"github.com/nconklindev/xlsx2vcf/internal/converter"
	"github.com/nconklindev/xlsx2vcf/internal/types"
)

type DragEvent int

const (
	DragEnter DragEvent = iota
	DragOver
	DragLeave
	Drop
)

// DropZone tracks whether a drag is hovering over the session.
type DropZone struct {
	Active bool
}

// Handle applies one drag lifecycle event and returns the status to show.
func (z DropZone) Handle(ev DragEvent) (DropZone, types.Status) {
	switch ev {
	case DragEnter, DragOver:
		return DropZone{Active: true}, types.Info(converter.MsgDropHint)
	default:
		return DropZone{Active: false}, types.Info(converter.MsgReady)
	}
}

// ParseDroppedPaths splits what a terminal pastes when files are dropped on
// it. Terminals differ: some quote paths, some backslash-escape spaces, some
// paste file:// URIs. Paths are separated by whitespace outside quotes.
func ParseDroppedPaths(s string) []string {
	var (
		paths   []string
		current strings.Builder
		quote   rune
		escaped bool
		started bool
	)

	flush := func() {
		if started {
			paths = append(paths, normalizeDropped(current.String()))
		}
		current.Reset()
		started = false
	}

	for _, r := range s {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			started = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			started = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			current.WriteRune(r)
			started = true
		}
	}
	flush()

	return paths
}

func normalizeDropped(p string) string {
	if !strings.HasPrefix(p, "file://") {
		return p
	}
	u, err := url.Parse(p)
	if err != nil || u.Path == "" {
		return strings.TrimPrefix(p, "file://")
	}
	return u.Path
}

// FirstDroppedPath returns the first dropped path; extra files are ignored.
func FirstDroppedPath(s string) (string, bool) {
	paths := ParseDroppedPaths(s)
	for _, p := range paths {
		if p != "" {
			return p, true
		}
	}
	return "", false
}
