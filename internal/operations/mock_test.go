package operations_test

import (
	"context"
	"sync"

	"salesinsight/internal/operations"
)

// mockStep is a configurable step used by the manager and registry tests
type mockStep struct {
	id           string
	name         string
	dependencies []string
	validateErr  error
	executeFunc  func(ctx context.Context, state *operations.OperationState) error

	mu       sync.Mutex
	executed int
}

func newMockStep(id string, deps ...string) *mockStep {
	return &mockStep{id: id, name: "Step " + id, dependencies: deps}
}

func (m *mockStep) ID() string                { return m.id }
func (m *mockStep) Name() string              { return m.name }
func (m *mockStep) GetDependencies() []string { return m.dependencies }

func (m *mockStep) Validate(state *operations.OperationState) error {
	return m.validateErr
}

func (m *mockStep) Execute(ctx context.Context, state *operations.OperationState) error {
	m.mu.Lock()
	m.executed++
	m.mu.Unlock()
	if m.executeFunc != nil {
		return m.executeFunc(ctx, state)
	}
	return nil
}

func (m *mockStep) Executions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.executed
}

// recordOrder appends the step ID to order when the step runs
func recordOrder(order *[]string, step *mockStep) *mockStep {
	step.executeFunc = func(ctx context.Context, state *operations.OperationState) error {
		*order = append(*order, step.id)
		return nil
	}
	return step
}
