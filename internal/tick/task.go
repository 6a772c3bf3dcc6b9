package tick

import "go.uber.org/atomic"

// Task is a unit of work queued on a Scheduler. A task is either one-shot
// or repeats every period ticks until it is finished or cancelled.
type Task struct {
	id     uint64
	due    uint64
	period uint64
	fn     func(*Task)
	index  int

	cancelled atomic.Bool
	done      atomic.Bool
	runs      atomic.Uint64
}

// Cancel prevents any further run. Safe to call repeatedly and from any goroutine.
func (t *Task) Cancel() {
	t.cancelled.Store(true)
}

// Finish ends a repeating task from inside its own body without marking it cancelled.
func (t *Task) Finish() {
	t.done.Store(true)
}

func (t *Task) Cancelled() bool {
	return t.cancelled.Load()
}

// Finished reports whether the task will never run again.
func (t *Task) Finished() bool {
	return t.done.Load() || t.cancelled.Load()
}

// Runs is the number of times the task body executed.
func (t *Task) Runs() uint64 {
	return t.runs.Load()
}

func (t *Task) ID() uint64 {
	return t.id
}

// taskQueue is a min-heap ordered by due tick, then submission order.
type taskQueue []*Task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].due != q[j].due {
		return q[i].due < q[j].due
	}
	return q[i].id < q[j].id
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x any) {
	t := x.(*Task)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
