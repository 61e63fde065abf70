package ports

// InputResolver defines the interface for resolving command task inputs.
//
//go:generate go run go.uber.org/mock/mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type InputResolver interface {
	// ResolveInputs expands the given path patterns to a sorted list of concrete file paths.
	// Relative patterns are resolved against root.
	ResolveInputs(patterns []string, root string) ([]string, error)
}
