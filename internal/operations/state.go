package operations

import (
	"sync"
	"time"

	"github.com/go-gota/gota/dataframe"

	"salesinsight/internal/dataprocessing"
	"salesinsight/pkg/contracts/domain"
)

// OperationStatusValue represents the overall operation status enum
type OperationStatusValue string

const (
	OperationStatusPending   OperationStatusValue = "pending"
	OperationStatusRunning   OperationStatusValue = "running"
	OperationStatusCompleted OperationStatusValue = "completed"
	OperationStatusFailed    OperationStatusValue = "failed"
	OperationStatusCancelled OperationStatusValue = "cancelled"
)

// PipelineData carries the values each step hands to the next. A step
// replaces the fields it produces and never modifies what earlier steps
// stored.
type PipelineData struct {
	// load
	Raw *dataprocessing.Tables

	// clean
	Cleaned         *dataprocessing.Tables
	CleaningReports []*dataprocessing.CleaningReport

	// transform
	Sales  []domain.Sale
	Groups []domain.ProductGroup
	Access []domain.WebsiteAccess
	Joined []domain.SaleWithGroup

	// aggregate
	Report *domain.Report

	// render
	Outputs []string
}

// OperationState represents the complete state of a pipeline run
type OperationState struct {
	mu sync.RWMutex

	ID        string               `json:"id"`
	Status    OperationStatusValue `json:"status"`
	StartTime time.Time            `json:"start_time"`
	EndTime   *time.Time           `json:"end_time,omitempty"`

	Steps map[string]*StepState `json:"steps"`

	// Context holds counters and notes recorded by steps
	Context map[string]interface{} `json:"context"`

	Data *PipelineData `json:"-"`

	Error error `json:"error,omitempty"`
}

// NewOperationState creates a new operation state
func NewOperationState(id string) *OperationState {
	return &OperationState{
		ID:        id,
		Status:    OperationStatusPending,
		StartTime: time.Now(),
		Steps:     make(map[string]*StepState),
		Context:   make(map[string]interface{}),
		Data:      &PipelineData{},
	}
}

// Start marks the operation as running
func (p *OperationState) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Status = OperationStatusRunning
	p.StartTime = time.Now()
}

// Complete marks the operation as completed
func (p *OperationState) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusCompleted
}

// Fail marks the operation as failed
func (p *OperationState) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusFailed
	p.Error = err
}

// Cancel marks the operation as cancelled
func (p *OperationState) Cancel(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusCancelled
	p.Error = err
}

// GetStage returns the state of a specific Step
func (p *OperationState) GetStage(stageID string) *StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Steps[stageID]
}

// SetStage updates the state of a specific Step
func (p *OperationState) SetStage(stageID string, state *StepState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Steps[stageID] = state
}

// GetContext retrieves a value from the operation context
func (p *OperationState) GetContext(key string) (interface{}, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	val, ok := p.Context[key]
	return val, ok
}

// SetContext sets a value in the operation context
func (p *OperationState) SetContext(key string, value interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Context[key] = value
}

// Duration returns the duration of the operation execution
func (p *OperationState) Duration() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.EndTime != nil {
		return p.EndTime.Sub(p.StartTime)
	}
	return time.Since(p.StartTime)
}

// GetFailedStages returns all failed steps
func (p *OperationState) GetFailedStages() []*StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var failed []*StepState
	for _, step := range p.Steps {
		if step.GetStatus() == StepStatusFailed {
			failed = append(failed, step)
		}
	}
	return failed
}

// IsComplete returns true if no step is pending or active
func (p *OperationState) IsComplete() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, step := range p.Steps {
		status := step.GetStatus()
		if status == StepStatusPending || status == StepStatusActive {
			return false
		}
	}
	return true
}

// tablesOf bundles three frames
func tablesOf(sales, groups, access dataframe.DataFrame) *dataprocessing.Tables {
	return &dataprocessing.Tables{Sales: sales, ProductGroups: groups, WebsiteAccess: access}
}
