package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/amirhossein-jamali/migrate-views/internal/domain/entity"
	errs "github.com/amirhossein-jamali/migrate-views/internal/domain/error"
	coreport "github.com/amirhossein-jamali/migrate-views/internal/domain/port/core"
	"github.com/amirhossein-jamali/migrate-views/internal/domain/port/persistence"
	"gopkg.in/yaml.v3"
)

// Registry holds the migrations, groups and entity types read from YAML definition files
type Registry struct {
	migrations  []*entity.Migration
	byID        map[string]*entity.Migration
	groups      map[string]*entity.MigrationGroup
	entityTypes *EntityTypes
}

var _ persistence.MigrationRegistry = (*Registry)(nil)

// Load reads every *.yml and *.yaml file of dir in lexical order.
// Migrations keep file order, then declaration order.
func Load(dir string, logger coreport.Logger) (*Registry, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("failed to open definitions directory: %w", err)
	}

	var files []string
	for _, pattern := range []string{"*.yml", "*.yaml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
		}
		files = append(files, matches...)
	}
	slices.Sort(files)

	r := newRegistry()
	for _, file := range files {
		if err := r.loadFile(file); err != nil {
			return nil, err
		}
	}

	logger.Info("Loaded migration definitions", map[string]any{
		"path":         dir,
		"files":        len(files),
		"migrations":   len(r.migrations),
		"groups":       len(r.groups),
		"entity_types": len(r.entityTypes.types),
	})
	return r, nil
}

// Parse builds a registry from a single YAML document stream
func Parse(reader io.Reader) (*Registry, error) {
	r := newRegistry()
	if err := r.decode(reader, "input"); err != nil {
		return nil, err
	}
	return r, nil
}

func newRegistry() *Registry {
	return &Registry{
		byID:        make(map[string]*entity.Migration),
		groups:      make(map[string]*entity.MigrationGroup),
		entityTypes: &EntityTypes{types: make(map[string]*entity.EntityType)},
	}
}

func (r *Registry) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return r.decode(f, filepath.Base(path))
}

// decode reads every document of a stream; unknown keys are rejected
func (r *Registry) decode(reader io.Reader, name string) error {
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)

	for {
		var file definitionFile
		err := decoder.Decode(&file)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %v", errs.ErrInvalidDefinition, name, err)
		}
		if err := r.add(file, name); err != nil {
			return err
		}
	}
}

func (r *Registry) add(file definitionFile, name string) error {
	for _, g := range file.Groups {
		if g.ID == "" {
			return fmt.Errorf("%w: %s: group id is required", errs.ErrInvalidDefinition, name)
		}
		if _, dup := r.groups[g.ID]; dup {
			return fmt.Errorf("%w: %s: duplicate group %s", errs.ErrInvalidDefinition, name, g.ID)
		}
		r.groups[g.ID] = &entity.MigrationGroup{ID: g.ID, Label: g.Label}
	}

	for _, et := range file.EntityTypes {
		if et.ID == "" {
			return fmt.Errorf("%w: %s: entity type id is required", errs.ErrInvalidDefinition, name)
		}
		r.entityTypes.types[et.ID] = &entity.EntityType{ID: et.ID, BaseTable: et.BaseTable, DataTable: et.DataTable}
	}

	for _, def := range file.Migrations {
		migration, err := def.toEntity()
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if _, dup := r.byID[migration.ID]; dup {
			return fmt.Errorf("%w: %s: duplicate migration %s", errs.ErrInvalidDefinition, name, migration.ID)
		}
		r.byID[migration.ID] = migration
		r.migrations = append(r.migrations, migration)
	}
	return nil
}

// List returns the migrations matching every part of the filter, in registry order
func (r *Registry) List(_ context.Context, filter persistence.MigrationFilter) ([]*entity.Migration, error) {
	var unknown []string
	for _, id := range filter.IDs {
		if _, ok := r.byID[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		return nil, errs.NewMigrationNotFoundError(unknown...)
	}

	var matched []*entity.Migration
	for _, m := range r.migrations {
		if len(filter.IDs) > 0 && !slices.Contains(filter.IDs, m.ID) {
			continue
		}
		if len(filter.Groups) > 0 && !slices.Contains(filter.Groups, m.GroupID) {
			continue
		}
		if filter.Tag != "" && !m.HasTag(filter.Tag) {
			continue
		}
		matched = append(matched, m)
	}
	return matched, nil
}

// Get returns one migration
func (r *Registry) Get(_ context.Context, id string) (*entity.Migration, error) {
	m, ok := r.byID[id]
	if !ok {
		return nil, errs.NewMigrationNotFoundError(id)
	}
	return m, nil
}

// Group returns a migration group; the default group always resolves
func (r *Registry) Group(_ context.Context, id string) (*entity.MigrationGroup, error) {
	if g, ok := r.groups[id]; ok {
		return g, nil
	}
	if id == entity.DefaultGroupID || id == "" {
		return entity.DefaultGroup(), nil
	}
	return nil, fmt.Errorf("%w: %s", errs.ErrGroupNotFound, id)
}

// EntityTypes returns the entity type metadata declared alongside the migrations
func (r *Registry) EntityTypes() *EntityTypes {
	return r.entityTypes
}

// EntityTypes implements persistence.EntityTypeRepository over the declared entity types
type EntityTypes struct {
	types map[string]*entity.EntityType
}

var _ persistence.EntityTypeRepository = (*EntityTypes)(nil)

// Get returns the metadata of an entity type
func (e *EntityTypes) Get(_ context.Context, id string) (*entity.EntityType, error) {
	if et, ok := e.types[strings.TrimSpace(id)]; ok {
		return et, nil
	}
	return nil, fmt.Errorf("%w: %s", errs.ErrEntityTypeNotFound, id)
}
