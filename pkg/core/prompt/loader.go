package prompt

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// LoadFromDirectory applies the prompt overrides under baseDir to the global
// registry:
//
//	baseDir/
//	  prompts/
//	    simulation/
//	      conversation.json   -> simulation.conversation
//	    extraction/
//	      entities.json       -> extraction.entities
func LoadFromDirectory(baseDir string) error {
	r := Get()
	err := r.LoadDirectory(baseDir)
	if ids := r.Overrides(); len(ids) > 0 {
		log.Printf("[prompt] overrides from %s: %s", baseDir, strings.Join(ids, ", "))
	}
	return err
}

// LoadDirectory applies every .json file under baseDir/prompts. A bad file
// is reported without stopping the others.
func (r *Registry) LoadDirectory(baseDir string) error {
	root := filepath.Join(baseDir, "prompts")
	if _, err := os.Stat(root); err != nil {
		return fmt.Errorf("prompt overrides: %w", err)
	}

	var errs []error
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".json") {
			return nil
		}
		if err := r.loadFile(path, root); err != nil {
			errs = append(errs, err)
		}
		return nil
	})
	if walkErr != nil {
		return walkErr
	}
	return errors.Join(errs...)
}

func (r *Registry) loadFile(path, root string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var t Template
	if err := json.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if t.ID == "" {
		t.ID = idFromPath(path, root)
	}
	t.Source = path

	if err := r.Override(&t); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// idFromPath turns "<root>/simulation/conversation.json" into "simulation.conversation".
func idFromPath(path, root string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	return strings.ReplaceAll(rel, string(filepath.Separator), ".")
}
