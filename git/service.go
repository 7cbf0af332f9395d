package git

import (
	aexec "github.com/arbortool/arbor/exec"
)

// Service provides git operations with explicit dependency injection.
// Each Service instance holds its own executor, enabling proper testing
// and avoiding global state.
type Service struct {
	executor aexec.CommandExecutor
}

// NewService creates a new Service with the default real executor.
func NewService() *Service {
	return &Service{executor: aexec.NewRealExecutor()}
}

// NewServiceWithExecutor creates a new Service with a custom executor.
// This is primarily used for testing where a mock executor is needed.
func NewServiceWithExecutor(executor aexec.CommandExecutor) *Service {
	return &Service{executor: executor}
}
