package registry

import (
	"github.com/amirhossein-jamali/migrate-views/internal/domain/entity"
)

// definitionFile is the layout of one YAML definitions file
type definitionFile struct {
	Groups      []groupDefinition      `yaml:"groups"`
	EntityTypes []entityTypeDefinition `yaml:"entity_types"`
	Migrations  []migrationDefinition  `yaml:"migrations"`
}

type groupDefinition struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}

type entityTypeDefinition struct {
	ID        string `yaml:"id"`
	BaseTable string `yaml:"base_table"`
	DataTable string `yaml:"data_table"`
}

type sourceFieldDefinition struct {
	Name  string `yaml:"name"`
	Label string `yaml:"label"`
}

type migrationDefinition struct {
	ID     string   `yaml:"id"`
	Group  string   `yaml:"group"`
	Label  string   `yaml:"label"`
	Tags   []string `yaml:"tags"`
	Source struct {
		Plugin string                  `yaml:"plugin"`
		IDs    []string                `yaml:"ids"`
		Fields []sourceFieldDefinition `yaml:"fields"`
	} `yaml:"source"`
	Destination struct {
		Plugin string   `yaml:"plugin"`
		Kind   string   `yaml:"kind"`
		IDs    []string `yaml:"ids"`
	} `yaml:"destination"`
	IDMap struct {
		Kind  string `yaml:"kind"`
		Table string `yaml:"table"`
	} `yaml:"id_map"`
}

// toEntity validates the definition and converts it to a domain migration
func (d migrationDefinition) toEntity() (*entity.Migration, error) {
	fields := make([]entity.SourceField, 0, len(d.Source.Fields))
	for _, f := range d.Source.Fields {
		fields = append(fields, entity.SourceField{Name: f.Name, Label: f.Label})
	}

	return entity.NewMigration(entity.Migration{
		ID:      d.ID,
		GroupID: d.Group,
		Label:   d.Label,
		Tags:    d.Tags,
		Source: entity.Source{
			Plugin: d.Source.Plugin,
			IDs:    d.Source.IDs,
			Fields: fields,
		},
		Destination: entity.Destination{
			Plugin: d.Destination.Plugin,
			Kind:   entity.DestinationKind(d.Destination.Kind),
			IDs:    d.Destination.IDs,
		},
		IDMap: entity.IDMap{
			Kind:  entity.IDMapKind(d.IDMap.Kind),
			Table: d.IDMap.Table,
		},
	})
}
