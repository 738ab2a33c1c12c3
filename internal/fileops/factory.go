package fileops

// OperatorFactory is a function that creates an Operator
// This allows for dependency injection in tests
type OperatorFactory func() Operator

// DefaultOperatorFactory creates a real engine
var DefaultOperatorFactory OperatorFactory = func() Operator {
	return New()
}

// CurrentOperatorFactory is the currently active factory
// This can be swapped in tests
var CurrentOperatorFactory = DefaultOperatorFactory

// SetOperatorFactory sets a custom operator factory for dependency injection
func SetOperatorFactory(factory OperatorFactory) {
	CurrentOperatorFactory = factory
}

// ResetOperatorFactory resets to the default operator factory
func ResetOperatorFactory() {
	CurrentOperatorFactory = DefaultOperatorFactory
}
