package entity

import (
	"fmt"
	"hash/crc32"
	"strings"

	errs "github.com/amirhossein-jamali/migrate-views/internal/domain/error"
)

// DefaultGroupID is the group of migrations that don't declare one
const (
	DefaultGroupID    = "default"
	DefaultGroupLabel = "Default"
)

// MapTablePrefix is the naming convention shared by every map table
const MapTablePrefix = "migrate_map_"

// MessageTablePrefix is the naming convention of per-migration message tables
const MessageTablePrefix = "migrate_message_"

// maxTableNameLength is the identifier limit of the strictest supported driver (postgres)
const maxTableNameLength = 63

// IDMapKind identifies how a migration keeps track of processed rows
type IDMapKind string

const (
	// IDMapSQL is a relational map table
	IDMapSQL IDMapKind = "sql"
	// IDMapSQLData is a relational map table that also stores raw source and destination payloads
	IDMapSQLData IDMapKind = "sql_data"
	// IDMapOther is any non-relational bookkeeping backend
	IDMapOther IDMapKind = "other"
)

// IsRelational reports whether the map keeps its rows in a relational table
func (k IDMapKind) IsRelational() bool {
	return k == IDMapSQL || k == IDMapSQLData
}

// StoresPayload reports whether the map keeps raw source and destination payloads
func (k IDMapKind) StoresPayload() bool {
	return k == IDMapSQLData
}

// DestinationKind identifies the family of a migration's destination plugin
type DestinationKind string

const (
	// DestinationEntityContent writes content entities backed by entity tables
	DestinationEntityContent DestinationKind = "entity_content"
	// DestinationOther is any destination without an entity table
	DestinationOther DestinationKind = "other"
)

// MigrationGroup is a named collection of related migrations
type MigrationGroup struct {
	ID    string
	Label string
}

// DefaultGroup returns the group migrations fall back to
func DefaultGroup() *MigrationGroup {
	return &MigrationGroup{ID: DefaultGroupID, Label: DefaultGroupLabel}
}

// DisplayLabel returns the label, or the default label for a nil or unlabeled group
func (g *MigrationGroup) DisplayLabel() string {
	if g == nil || g.Label == "" {
		return DefaultGroupLabel
	}
	return g.Label
}

// SourceField is a named field exposed by a source plugin
type SourceField struct {
	Name  string
	Label string
}

// Source describes where a migration reads rows from
type Source struct {
	Plugin string
	// IDs are the source key field names, in declaration order
	IDs    []string
	Fields []SourceField
}

// Destination describes where a migration writes rows to
type Destination struct {
	Plugin string
	Kind   DestinationKind
	// IDs are the destination key field names, in declaration order
	IDs []string
}

// EntityTypeID returns the entity type of an "entity:<type>" plugin, or "" for other plugins
func (d Destination) EntityTypeID() string {
	base, derivative, found := strings.Cut(d.Plugin, ":")
	if !found || base != "entity" {
		return ""
	}
	return derivative
}

// IDMap is the bookkeeping map of a migration
type IDMap struct {
	Kind  IDMapKind
	Table string
}

// Migration describes one configured migration job
type Migration struct {
	ID          string
	GroupID     string
	Label       string
	Tags        []string
	Source      Source
	Destination Destination
	IDMap       IDMap
}

// NewMigration validates a migration definition and fills in derived values
func NewMigration(m Migration) (*Migration, error) {
	if m.ID == "" {
		return nil, fmt.Errorf("%w: migration id is required", errs.ErrInvalidDefinition)
	}
	if len(m.Source.IDs) == 0 {
		return nil, fmt.Errorf("%w: migration %s declares no source ids", errs.ErrInvalidDefinition, m.ID)
	}
	if m.GroupID == "" {
		m.GroupID = DefaultGroupID
	}
	if m.Label == "" {
		m.Label = m.ID
	}

	if m.Destination.Kind == "" {
		m.Destination.Kind = DestinationOther
		if m.Destination.EntityTypeID() != "" {
			m.Destination.Kind = DestinationEntityContent
		}
	}
	switch m.Destination.Kind {
	case DestinationEntityContent, DestinationOther:
	default:
		return nil, fmt.Errorf("%w: migration %s has unknown destination kind %q", errs.ErrInvalidDefinition, m.ID, m.Destination.Kind)
	}

	if m.IDMap.Kind == "" {
		m.IDMap.Kind = IDMapSQL
	}
	switch m.IDMap.Kind {
	case IDMapSQL, IDMapSQLData, IDMapOther:
	default:
		return nil, fmt.Errorf("%w: migration %s has unknown id map kind %q", errs.ErrInvalidDefinition, m.ID, m.IDMap.Kind)
	}
	if m.IDMap.Kind.IsRelational() && m.IDMap.Table == "" {
		m.IDMap.Table = MapTableName(m.ID)
	}

	return &m, nil
}

// HasTag reports whether the migration carries the tag
func (m *Migration) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ViewID returns the identifier of the migration's report view
func (m *Migration) ViewID() string {
	return ReportViewID(m.GroupID, m.ID)
}

// MessageTable returns the name of the table holding the migration's row messages
func (m *Migration) MessageTable() string {
	return boundedTableName(MessageTablePrefix + machineName(m.ID))
}

// ReportViewID composes a report view machine name from a group and a migration,
// lowercased and with derivative separators replaced like table names
func ReportViewID(groupID, migrationID string) string {
	if groupID == "" {
		groupID = DefaultGroupID
	}
	return machineName(groupID) + "_" + machineName(migrationID)
}

// MapTableName derives the map table name of a migration
func MapTableName(migrationID string) string {
	return boundedTableName(MapTablePrefix + machineName(migrationID))
}

// machineName lowercases an id and replaces derivative separators
func machineName(id string) string {
	return strings.ReplaceAll(strings.ToLower(id), ":", "__")
}

// boundedTableName shortens names beyond the identifier limit, keeping them unique with a checksum
func boundedTableName(name string) string {
	if len(name) <= maxTableNameLength {
		return name
	}
	sum := crc32.ChecksumIEEE([]byte(name))
	return fmt.Sprintf("%s_%08x", name[:maxTableNameLength-9], sum)
}
