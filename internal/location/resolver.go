package location

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	nerrors "github.com/PolarWolf314/nova/internal/errors"
)

// DefaultSegment is the directory name that holds all projects.
const DefaultSegment = "Projects"

// Identity is the project and optional folder a working directory resolves to.
type Identity struct {
	Project string
	// Folder is nil when the working directory is the project root.
	Folder *string
}

// FolderOrEmpty returns the folder, or "" at the project root.
func (id Identity) FolderOrEmpty() string {
	if id.Folder == nil {
		return ""
	}
	return *id.Folder
}

// Resolver matches working directories against `<segment>/<project>[/<folder>]`.
type Resolver struct {
	segment string
	pattern *regexp.Regexp
}

// NewResolver returns a Resolver for the given root segment. An empty segment uses DefaultSegment.
func NewResolver(segment string) *Resolver {
	segment = strings.Trim(strings.ReplaceAll(segment, `\`, "/"), "/")
	if segment == "" {
		segment = DefaultSegment
	}
	return &Resolver{
		segment: segment,
		pattern: regexp.MustCompile(regexp.QuoteMeta(segment) + `/([^/]*)/?(.+)?`),
	}
}

// Segment returns the root segment the resolver matches.
func (r *Resolver) Segment() string {
	return r.segment
}

// Resolve parses cwd into an Identity.
//
// Returns ErrInvalidLocation if cwd does not contain `<segment>/<project>`.
func (r *Resolver) Resolve(cwd string) (Identity, error) {
	normalized := strings.ReplaceAll(cwd, `\`, "/")

	match := r.pattern.FindStringSubmatch(normalized)
	if match == nil || match[1] == "" {
		return Identity{}, fmt.Errorf("%w: %s is not inside a %s/<project> directory", nerrors.ErrInvalidLocation, cwd, r.segment)
	}

	id := Identity{Project: match[1]}
	if folder := strings.TrimRight(match[2], "/"); folder != "" {
		id.Folder = &folder
	}
	return id, nil
}

// JoinPath joins a cwd-relative path onto folder, producing a project-relative
// path with forward slashes. A nil folder adds no prefix.
//
// Returns ErrEmptyPath for an empty rel and ErrPathOutsideProject when the
// result is absolute or climbs above the project root.
func JoinPath(folder *string, rel string) (string, error) {
	rel = strings.ReplaceAll(strings.TrimSpace(rel), `\`, "/")
	if rel == "" {
		return "", nerrors.ErrEmptyPath
	}
	if path.IsAbs(rel) || isDriveLetterPath(rel) {
		return "", fmt.Errorf("%w: %s is absolute", nerrors.ErrPathOutsideProject, rel)
	}

	prefix := ""
	if folder != nil {
		prefix = *folder
	}

	joined := path.Join(prefix, rel)
	if joined == "." || joined == ".." || strings.HasPrefix(joined, "../") {
		return "", fmt.Errorf("%w: %s", nerrors.ErrPathOutsideProject, rel)
	}
	return joined, nil
}

func isDriveLetterPath(p string) bool {
	return len(p) >= 2 && p[1] == ':' && ((p[0] >= 'a' && p[0] <= 'z') || (p[0] >= 'A' && p[0] <= 'Z'))
}
