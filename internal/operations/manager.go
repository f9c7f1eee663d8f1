package operations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"salesinsight/internal/infrastructure"
)

// Manager runs registered steps one after another in dependency order.
// The first failing step stops the run; the remaining steps are skipped.
type Manager struct {
	registry *Registry
	config   *Config
	tracer   *OperationTracer
	logger   *slog.Logger
}

// NewManager creates a new pipeline manager
func NewManager(registry *Registry, config *Config, tracer *OperationTracer, logger *slog.Logger) *Manager {
	if registry == nil {
		registry = NewRegistry()
	}
	if config == nil {
		config = NewConfig()
	}
	if tracer == nil {
		tracer, _ = NewOperationTracer(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		registry: registry,
		config:   config,
		tracer:   tracer,
		logger:   logger.With("component", "operations"),
	}
}

// RegisterStage registers a Step with the pipeline
func (m *Manager) RegisterStage(step Step) error {
	return m.registry.Register(step)
}

// GetRegistry returns the registry for accessing registered stages
func (m *Manager) GetRegistry() *Registry {
	return m.registry
}

// GetConfig returns the current configuration
func (m *Manager) GetConfig() *Config {
	return m.config
}

// Execute runs the pipeline and summarizes the outcome
func (m *Manager) Execute(ctx context.Context, req OperationRequest) (*OperationResponse, error) {
	state, err := m.Run(ctx, req)
	return m.createResponse(state), err
}

// Run runs the pipeline and returns the full state, including the data the
// steps produced
func (m *Manager) Run(ctx context.Context, req OperationRequest) (*OperationState, error) {
	if req.ID == "" {
		req.ID = infrastructure.NewRunID()
	}
	if infrastructure.GetTraceID(ctx) == "" {
		ctx = infrastructure.WithTraceID(ctx, req.ID)
	}

	state := NewOperationState(req.ID)

	steps, err := m.selectSteps(req)
	if err != nil {
		m.logOperationError(ctx, req.ID, err)
		state.Fail(err)
		return state, err
	}

	for _, step := range steps {
		state.SetStage(step.ID(), NewStepState(step.ID(), step.Name()))
	}

	ctx, span := m.tracer.TraceOperationExecution(ctx, req.ID, len(steps))
	defer span.End()

	m.logOperationStart(ctx, req.ID, steps)
	state.Start()

	err = m.executeSequential(ctx, state, steps)

	switch {
	case err == nil:
		state.Complete()
	case GetErrorType(err) == ErrorTypeCancellation:
		state.Cancel(err)
	default:
		state.Fail(err)
		m.logOperationError(ctx, req.ID, err)
	}

	m.tracer.RecordOperationCompletion(ctx, span, req.ID, state.Duration(), err)
	m.logOperationComplete(ctx, req.ID, state.Duration(), state.Status)
	return state, err
}

// selectSteps returns every step in dependency order, or only the requested
// step and the steps it depends on
func (m *Manager) selectSteps(req OperationRequest) ([]Step, error) {
	if req.Step != "" && !m.registry.Has(req.Step) {
		return nil, &OperationError{Type: ErrorTypeNotFound, Step: req.Step, Message: "requested step not found"}
	}

	steps, err := m.registry.GetDependencyOrder()
	if err != nil {
		return nil, NewFatalError("failed to get dependency order", err)
	}
	if len(steps) == 0 {
		return nil, NewFatalError("no steps registered", nil)
	}
	if req.Step == "" {
		return steps, nil
	}

	needed := make(map[string]bool)
	var mark func(id string)
	mark = func(id string) {
		if needed[id] {
			return
		}
		needed[id] = true
		if step, err := m.registry.Get(id); err == nil {
			for _, dep := range step.GetDependencies() {
				mark(dep)
			}
		}
	}
	mark(req.Step)

	selected := make([]Step, 0, len(needed))
	for _, step := range steps {
		if needed[step.ID()] {
			selected = append(selected, step)
		}
	}
	return selected, nil
}

// executeSequential executes steps one by one
func (m *Manager) executeSequential(ctx context.Context, state *OperationState, steps []Step) error {
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			m.logger.WarnContext(ctx, "operation_cancelled",
				slog.String("operation_id", state.ID),
				slog.String("step", step.ID()))
			m.skipRemaining(state, steps[i:], "operation cancelled")
			return NewCancellationError(step.ID(), err)
		}

		m.logStageStart(ctx, state.ID, step.ID(), i+1, len(steps))
		if err := m.executeStage(ctx, state, step); err != nil {
			m.logStageError(ctx, state.ID, step.ID(), err)
			m.skipRemaining(state, steps[i+1:], fmt.Sprintf("step %s failed", step.ID()))
			return err
		}
	}
	return nil
}

// executeStage executes a single Step
func (m *Manager) executeStage(ctx context.Context, state *OperationState, step Step) error {
	stepState := state.GetStage(step.ID())
	if stepState == nil {
		return NewFatalError(fmt.Sprintf("state of step %s not found", step.ID()), nil)
	}

	if err := m.checkDependencies(state, step); err != nil {
		stepState.Skip(err.Error())
		return err
	}

	if err := step.Validate(state); err != nil {
		stepState.Skip(fmt.Sprintf("validation failed: %v", err))
		return NewValidationError(step.ID(), err.Error())
	}

	timeout := m.config.GetStageTimeout(step.ID())
	stageCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	stageCtx, span := m.tracer.TraceStageExecution(stageCtx, state.ID, step.ID())
	defer span.End()

	stepState.Start()
	start := time.Now()
	err := step.Execute(stageCtx, state)
	duration := time.Since(start)
	m.tracer.RecordStageCompletion(stageCtx, span, step.ID(), duration, err)

	if err == nil {
		stepState.Complete()
		m.logStageComplete(ctx, state.ID, step.ID(), duration)
		return nil
	}

	switch {
	case errors.Is(stageCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		err = NewTimeoutError(step.ID(), timeout.String())
	case ctx.Err() != nil:
		err = NewCancellationError(step.ID(), err)
	default:
		var opErr *OperationError
		if !errors.As(err, &opErr) {
			err = NewExecutionError(step.ID(), err)
		}
	}
	stepState.Fail(err)
	return err
}

// checkDependencies verifies that all dependencies completed
func (m *Manager) checkDependencies(state *OperationState, step Step) error {
	for _, dep := range step.GetDependencies() {
		depState := state.GetStage(dep)
		if depState == nil {
			return NewDependencyError(step.ID(), dep, fmt.Sprintf("dependency %s did not run", dep))
		}
		if status := depState.GetStatus(); status != StepStatusCompleted {
			return NewDependencyError(step.ID(), dep, fmt.Sprintf("dependency %s not completed (status: %s)", dep, status))
		}
	}
	return nil
}

// skipRemaining marks pending steps as skipped
func (m *Manager) skipRemaining(state *OperationState, steps []Step, reason string) {
	for _, step := range steps {
		if s := state.GetStage(step.ID()); s != nil && s.GetStatus() == StepStatusPending {
			s.Skip(reason)
		}
	}
}

// createResponse creates a pipeline response from state
func (m *Manager) createResponse(state *OperationState) *OperationResponse {
	resp := &OperationResponse{
		ID:       state.ID,
		Status:   state.Status,
		Duration: state.Duration(),
		Steps:    state.Steps,
	}
	if state.Error != nil {
		resp.Error = state.Error.Error()
	}
	return resp
}
