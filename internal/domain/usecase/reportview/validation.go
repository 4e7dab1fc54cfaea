package reportview

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/amirhossein-jamali/migrate-views/internal/domain/entity"
	"github.com/go-playground/validator/v10"
)

var machineNamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// Validator checks a view before it is saved, like compiling it would.
// Errors are keyed by display ID; handler problems belong to the default display.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator with the view validation rules registered
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails for an empty tag or nil func
	_ = v.RegisterValidation("machinename", func(fl validator.FieldLevel) bool {
		return machineNamePattern.MatchString(fl.Field().String())
	})
	return &Validator{validate: v}
}

// Validate returns every problem of the view, or an empty map when it is valid
func (v *Validator) Validate(view *entity.ViewSpec) map[string][]string {
	errs := make(map[string][]string)
	add := func(display, message string) {
		errs[display] = append(errs[display], message)
	}

	if view == nil {
		add(entity.DisplayDefault, "View is empty.")
		return errs
	}

	v.structuralErrors(view, add)
	v.displayErrors(view, add)
	v.handlerErrors(view, add)

	return errs
}

// structuralErrors reports struct tag violations
func (v *Validator) structuralErrors(view *entity.ViewSpec, add func(display, message string)) {
	err := v.validate.Struct(view)
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		add(entity.DisplayDefault, err.Error())
		return
	}

	for _, fe := range fieldErrs {
		add(displayOf(view, fe.Namespace()), describe(fe))
	}
}

// displayOf maps a validator namespace such as "ViewSpec.Displays[1].Path" to a display ID
func displayOf(view *entity.ViewSpec, namespace string) string {
	var index int
	if _, err := fmt.Sscanf(afterPrefix(namespace, "ViewSpec.Displays["), "%d]", &index); err == nil {
		if index >= 0 && index < len(view.Displays) && view.Displays[index].ID != "" {
			return view.Displays[index].ID
		}
	}
	return entity.DisplayDefault
}

func afterPrefix(s, prefix string) string {
	if strings.HasPrefix(s, prefix) {
		return s[len(prefix):]
	}
	return ""
}

// describe turns a field error into an operator-facing message
func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "ViewSpec.")
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required.", field)
	case "machinename":
		return fmt.Sprintf("%s %q must contain only lowercase letters, numbers and underscores.", field, fe.Value())
	case "oneof":
		return fmt.Sprintf("%s %q must be one of: %s.", field, fe.Value(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long.", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must contain at least %s item(s).", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s.", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed the %s rule.", field, fe.Tag())
	}
}

// displayErrors checks display identity and page paths
func (v *Validator) displayErrors(view *entity.ViewSpec, add func(display, message string)) {
	seen := make(map[string]bool, len(view.Displays))
	for i, display := range view.Displays {
		if i == 0 && display.ID != entity.DisplayDefault {
			add(entity.DisplayDefault, "The first display must be the default display.")
		}
		if display.ID != "" && seen[display.ID] {
			add(display.ID, fmt.Sprintf("Display %s is defined more than once.", display.ID))
		}
		seen[display.ID] = true

		if display.Plugin != entity.DisplayPluginPage || display.Path == "" {
			continue
		}
		if strings.HasPrefix(display.Path, "/") {
			add(display.ID, fmt.Sprintf("Display %s path must not start with a slash.", display.ID))
		}
		for _, segment := range strings.Split(strings.TrimPrefix(display.Path, "/"), "/") {
			if segment == "" {
				add(display.ID, fmt.Sprintf("Display %s path contains an empty segment.", display.ID))
				break
			}
		}
	}
}

// handlerErrors checks handler identity and that every handler reads a reachable table
func (v *Validator) handlerErrors(view *entity.ViewSpec, add func(display, message string)) {
	seen := make(map[string]bool, len(view.Handlers))
	for _, h := range view.Handlers {
		if h.ID != "" && seen[h.ID] {
			add(entity.DisplayDefault, fmt.Sprintf("Handler %s is defined more than once.", h.ID))
		}
		seen[h.ID] = true

		switch h.Type {
		case entity.HandlerEmpty:
			if h.Table != AreaTable {
				add(entity.DisplayDefault, fmt.Sprintf("Area %s must use the %s table.", h.ID, AreaTable))
			}
		case entity.HandlerField, entity.HandlerRelationship:
			if view.BaseTable != "" && h.Table != "" && h.Table != view.BaseTable {
				add(entity.DisplayDefault, fmt.Sprintf("Handler %s references table %s, which is not the base table %s.", h.ID, h.Table, view.BaseTable))
			}
		}
	}
}
