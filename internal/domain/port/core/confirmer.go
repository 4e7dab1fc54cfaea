package core

import "context"

// Confirmer asks the operator a yes/no question before a destructive step
type Confirmer interface {
	// Confirm returns true only when the operator explicitly agrees
	Confirm(ctx context.Context, question string) (bool, error)
}
