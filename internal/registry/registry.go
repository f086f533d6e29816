// Package registry maps opaque Dify app ids to human display names and
// stable local flow directory names, so repeated pulls of the same app
// land in the same place.
//
// The registry is one YAML file ({apps: [{name, id, dir}, ...]}) read in
// full when a store is constructed and rewritten in full after any
// mutation. There is no locking: two processes racing on Allocate can
// lose updates (last writer wins). That is an accepted limitation of the
// single-user workflow this tool targets.
package registry

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/dfac/internal/atomicfile"
	"github.com/aidanlsb/dfac/internal/fsname"
)

// App is one registry row.
type App struct {
	// Name is the app's display name as reported by the console.
	// Not unique: two apps may share a name.
	Name string `yaml:"name"`
	// ID is the console's opaque app identifier (a UUID). Unique.
	ID string `yaml:"id"`
	// Dir is the locally allocated flow directory name. Unique.
	Dir string `yaml:"dir"`
}

// appIDPattern matches the console's app identifiers (UUID shape).
var appIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsAppID reports whether token already has the shape of a console app
// id and therefore needs no registry lookup.
func IsAppID(token string) bool {
	return appIDPattern.MatchString(token)
}

// UnknownAppError reports a token that is neither an app id nor a known
// directory or display name.
type UnknownAppError struct {
	Token string
}

func (e *UnknownAppError) Error() string {
	return fmt.Sprintf("unknown app %q: not an app id, and no registry entry has that dir or name", e.Token)
}

type registryFile struct {
	Apps []*App `yaml:"apps"`
}

// Store is the registry loaded from its backing file. Construct one per
// command invocation with Load and pass it explicitly to whatever needs
// it; there is no ambient process-wide instance.
type Store struct {
	path string
	apps []*App
}

// Load reads the registry file at path. A missing file yields an empty
// store; the file is created on first Allocate.
func Load(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read registry %s: %w", path, err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	s.apps = file.Apps
	return s, nil
}

// Apps returns the registry entries in stored order.
func (s *Store) Apps() []*App {
	return s.apps
}

// Resolve turns a user-supplied token into an app id. Tokens that
// already look like an app id pass through untouched; otherwise entries
// are scanned in stored order for a matching dir, then for a matching
// name. An unmatched token is an UnknownAppError.
func (s *Store) Resolve(token string) (string, error) {
	if IsAppID(token) {
		return token, nil
	}
	for _, app := range s.apps {
		if app.Dir == token {
			return app.ID, nil
		}
	}
	for _, app := range s.apps {
		if app.Name == token {
			return app.ID, nil
		}
	}
	return "", &UnknownAppError{Token: token}
}

// Lookup returns the entry for an app id, if one exists.
func (s *Store) Lookup(id string) (*App, bool) {
	for _, app := range s.apps {
		if app.ID == id {
			return app, true
		}
	}
	return nil, false
}

// DirFor returns the directory allocated for an app id. Callers must
// have resolved or allocated the id first; a miss here is a broken
// contract, not a user error.
func (s *Store) DirFor(id string) (string, error) {
	if app, ok := s.Lookup(id); ok {
		return app.Dir, nil
	}
	return "", fmt.Errorf("app id %s has no registry entry; pull it first to allocate a directory", id)
}

// Allocate picks a fresh, collision-free directory name for id, derived
// from the sanitized display name with a _2, _3, ... suffix when taken,
// appends the entry, and persists the whole registry.
//
// Allocate does not dedup by id: calling it twice for the same id mints
// two entries. Callers that want reuse must Lookup first.
func (s *Store) Allocate(name, id string) (string, error) {
	base := fsname.Segment(name)

	dir := base
	for n := 2; s.dirTaken(dir); n++ {
		dir = fmt.Sprintf("%s_%d", base, n)
	}

	s.apps = append(s.apps, &App{Name: name, ID: id, Dir: dir})
	if err := s.save(); err != nil {
		return "", err
	}
	return dir, nil
}

func (s *Store) dirTaken(dir string) bool {
	for _, app := range s.apps {
		if app.Dir == dir {
			return true
		}
	}
	return false
}

// save rewrites the registry file in full.
func (s *Store) save() error {
	data, err := yaml.Marshal(registryFile{Apps: s.apps})
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}
	if err := atomicfile.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write registry %s: %w", s.path, err)
	}
	return nil
}
