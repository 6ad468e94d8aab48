package progress

import "fmt"

// Report is one progress delivery for the batch.
type Report struct {
	TaskIndex       int     // 1-based.
	TotalTasks      int
	TaskName        string
	Stage           string  // Human-readable stage label.
	TaskProgress    float64 // [0,1] within the task.
	OverallProgress float64 // [0,1] across the batch.
}

func (r Report) String() string {
	return fmt.Sprintf("[%d/%d] %s: %s (task %.1f%%, overall %.1f%%)",
		r.TaskIndex, r.TotalTasks, r.TaskName, r.Stage, r.TaskProgress*100, r.OverallProgress*100)
}

// Gate blocks while paused and reports cancellation. *control.Signals
// satisfies it.
type Gate interface {
	Checkpoint() error
}

// TaskEmitter maps task-local progress into batch-overall reports. Task i of
// N owns the overall slice [(i-1)/N, i/N].
type TaskEmitter struct {
	index int
	total int
	name  string
	gate  Gate
	sink  func(Report)
}

// NewTaskEmitter returns an emitter for task index (1-based) of total. gate
// and sink may be nil.
func NewTaskEmitter(index, total int, name string, gate Gate, sink func(Report)) *TaskEmitter {
	if total < 1 {
		total = 1
	}
	return &TaskEmitter{index: index, total: total, name: name, gate: gate, sink: sink}
}

// Overall returns the batch-overall ratio for a task-local value.
func (e *TaskEmitter) Overall(value float64) float64 {
	value = min(1, max(0, value))
	return min(1, (float64(e.index-1)+value)/float64(e.total))
}

// Emit waits out any pause, then delivers a report. If cancellation is
// observed the report is dropped and the gate's error returned.
func (e *TaskEmitter) Emit(value float64, stage string) error {
	value = min(1, max(0, value))
	if e.gate != nil {
		if err := e.gate.Checkpoint(); err != nil {
			return err
		}
	}
	if e.sink == nil {
		return nil
	}
	e.sink(Report{
		TaskIndex:       e.index,
		TotalTasks:      e.total,
		TaskName:        e.name,
		Stage:           stage,
		TaskProgress:    value,
		OverallProgress: e.Overall(value),
	})
	return nil
}
