package entity

import "fmt"

// HandlerType is the role of a handler within a view
type HandlerType string

const (
	// HandlerField is a displayed column
	HandlerField HandlerType = "field"
	// HandlerRelationship joins another table into the view
	HandlerRelationship HandlerType = "relationship"
	// HandlerEmpty is an area rendered when the view has no rows
	HandlerEmpty HandlerType = "empty"
)

// Display identifiers and plugins used by report views
const (
	DisplayDefault = "default"
	DisplayPage    = "page_1"

	DisplayPluginDefault = "default"
	DisplayPluginPage    = "page"
)

// Handler is one column, relationship or area of a view
type Handler struct {
	ID      string      `json:"id" validate:"required,machinename"`
	Type    HandlerType `json:"type" validate:"required,oneof=field relationship empty"`
	Table   string      `json:"table" validate:"required"`
	Field   string      `json:"field" validate:"required"`
	Label   string      `json:"label,omitempty"`
	Format  string      `json:"format,omitempty" validate:"omitempty,oneof=key raw"`
	Key     string      `json:"key,omitempty" validate:"required_if=Format key"`
	Content string      `json:"content,omitempty"`
	Plugin  string      `json:"plugin_id,omitempty"`

	// JoinTable is the side table a handler reads from, such as the message table of a map
	JoinTable string `json:"join_table,omitempty"`

	// Empty marks an area that renders even when the result is empty
	Empty bool `json:"empty,omitempty"`
}

// Style configures how rows are rendered
type Style struct {
	Type            string `json:"type" validate:"required,oneof=table list grid"`
	RowClass        string `json:"row_class"`
	DefaultRowClass bool   `json:"default_row_class"`
}

// Pager configures result paging
type Pager struct {
	Type         string `json:"type" validate:"required,oneof=full mini some none"`
	ItemsPerPage int    `json:"items_per_page" validate:"gte=0"`
	Offset       int    `json:"offset" validate:"gte=0"`
}

// Access restricts who may see a display
type Access struct {
	Type       string `json:"type" validate:"required,oneof=none perm"`
	Permission string `json:"perm,omitempty" validate:"required_if=Type perm"`
}

// Allows reports whether a caller with the given permissions may see the display
func (a Access) Allows(hasPermission func(string) bool) bool {
	if a.Type != "perm" {
		return true
	}
	return hasPermission(a.Permission)
}

// Display is one way of presenting a view
type Display struct {
	ID     string  `json:"id" validate:"required,machinename"`
	Plugin string  `json:"display_plugin" validate:"required,oneof=default page"`
	Title  string  `json:"display_title"`
	Path   string  `json:"path,omitempty" validate:"required_if=Plugin page"`
	Style  *Style  `json:"style,omitempty" validate:"omitempty"`
	Pager  *Pager  `json:"pager,omitempty" validate:"omitempty"`
	Access *Access `json:"access,omitempty" validate:"omitempty"`
}

// ViewSpec is a declarative tabular report over a base table
type ViewSpec struct {
	ID        string    `json:"id" validate:"required,machinename,max=128"`
	Label     string    `json:"label" validate:"required,max=255"`
	BaseTable string    `json:"base_table" validate:"required"`
	Status    bool      `json:"status"`
	Handlers  []Handler `json:"handlers" validate:"dive"`
	Displays  []Display `json:"displays" validate:"min=1,dive"`
}

// NewViewSpec creates an enabled view with a default display
func NewViewSpec(id, label, baseTable string) *ViewSpec {
	return &ViewSpec{
		ID:        id,
		Label:     label,
		BaseTable: baseTable,
		Status:    true,
		Displays: []Display{
			{ID: DisplayDefault, Plugin: DisplayPluginDefault, Title: "Default"},
		},
	}
}

// AddDisplay appends a display and returns it for further configuration
func (v *ViewSpec) AddDisplay(plugin, title, id string) *Display {
	v.Displays = append(v.Displays, Display{ID: id, Plugin: plugin, Title: title})
	return &v.Displays[len(v.Displays)-1]
}

// Display returns the display with the given id
func (v *ViewSpec) Display(id string) (*Display, bool) {
	for i := range v.Displays {
		if v.Displays[i].ID == id {
			return &v.Displays[i], true
		}
	}
	return nil, false
}

// AddHandler appends a handler, deriving a unique id from the field name
func (v *ViewSpec) AddHandler(handler Handler) Handler {
	handler.ID = v.uniqueHandlerID(handler.Field)
	v.Handlers = append(v.Handlers, handler)
	return handler
}

// HandlersOfType returns the handlers of one type, in view order
func (v *ViewSpec) HandlersOfType(handlerType HandlerType) []Handler {
	var out []Handler
	for _, h := range v.Handlers {
		if h.Type == handlerType {
			out = append(out, h)
		}
	}
	return out
}

func (v *ViewSpec) uniqueHandlerID(field string) string {
	taken := make(map[string]bool, len(v.Handlers))
	for _, h := range v.Handlers {
		taken[h.ID] = true
	}
	if !taken[field] {
		return field
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d", field, i)
		if !taken[candidate] {
			return candidate
		}
	}
}
