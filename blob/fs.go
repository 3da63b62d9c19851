// Package blob keeps recipe procedure text and photo references on the
// filesystem, next to the sqlite file.
package blob

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pancsta/recipai/fail"
)

const (
	proceduresDir = "procedures"
	photosDir     = "photos"
)

// Store writes one file per recipe, named {owner}_{recipeID}.
type Store struct {
	base string
}

// New creates the procedure and photo directories under base.
func New(base string) (*Store, error) {
	for _, dir := range []string{proceduresDir, photosDir} {
		if err := os.MkdirAll(filepath.Join(base, dir), 0o755); err != nil {
			return nil, err
		}
	}
	return &Store{base: base}, nil
}

func (s *Store) procedurePath(owner int64, recipeID uint) string {
	return filepath.Join(s.base, proceduresDir,
		fmt.Sprintf("%d_%d.txt", owner, recipeID))
}

func (s *Store) photosPath(owner int64, recipeID uint) string {
	return filepath.Join(s.base, photosDir,
		fmt.Sprintf("%d_%d.refs", owner, recipeID))
}

// SaveProcedure persists the method text.
func (s *Store) SaveProcedure(owner int64, recipeID uint, text string) error {
	err := os.WriteFile(s.procedurePath(owner, recipeID), []byte(text), 0o644)
	return fail.Collab(err)
}

// Procedure loads the method text. A missing file is a collaborator
// failure, every saved recipe has one.
func (s *Store) Procedure(owner int64, recipeID uint) (string, error) {
	data, err := os.ReadFile(s.procedurePath(owner, recipeID))
	if err != nil {
		return "", fail.Collab(err)
	}
	return string(data), nil
}

func (s *Store) DeleteProcedure(owner int64, recipeID uint) error {
	err := os.Remove(s.procedurePath(owner, recipeID))
	if err != nil && !os.IsNotExist(err) {
		return fail.Collab(err)
	}
	return nil
}

// SavePhotos persists transport file ids, one per line.
func (s *Store) SavePhotos(owner int64, recipeID uint, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	data := strings.Join(ids, "\n") + "\n"
	err := os.WriteFile(s.photosPath(owner, recipeID), []byte(data), 0o644)
	return fail.Collab(err)
}

// Photos returns the stored file ids. No file means no photos.
func (s *Store) Photos(owner int64, recipeID uint) ([]string, error) {
	data, err := os.ReadFile(s.photosPath(owner, recipeID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fail.Collab(err)
	}

	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out, nil
}

func (s *Store) DeletePhotos(owner int64, recipeID uint) error {
	err := os.Remove(s.photosPath(owner, recipeID))
	if err != nil && !os.IsNotExist(err) {
		return fail.Collab(err)
	}
	return nil
}

// Delete removes everything stored for a recipe.
func (s *Store) Delete(owner int64, recipeID uint) error {
	if err := s.DeleteProcedure(owner, recipeID); err != nil {
		return err
	}
	return s.DeletePhotos(owner, recipeID)
}
