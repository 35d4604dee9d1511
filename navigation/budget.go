package navigation

// DefaultBudget is the number of searches allowed per tick.
const DefaultBudget = 6

// Budgeter caps how many searches run per tick. Requests over the cap are
// queued and drained in FIFO order at the next Tick, counting against that
// tick's budget. A request can wait indefinitely if inflow keeps the budget
// saturated.
type Budgeter struct {
	budget int
	used   int
	queue  []func()
}

func NewBudgeter(budget int) *Budgeter {
	return &Budgeter{budget: budget}
}

// TryRunOrQueue runs action now if nothing is queued and budget remains this
// tick, reporting true. Otherwise it queues the action behind older ones and
// reports false.
func (b *Budgeter) TryRunOrQueue(action func()) bool {
	if action == nil {
		return false
	}
	if len(b.queue) == 0 && b.used < b.budget {
		b.used++
		action()
		return true
	}
	b.queue = append(b.queue, action)
	return false
}

// Tick starts a new tick: the counter resets and queued actions run until the
// budget is spent. It returns how many queued actions ran.
func (b *Budgeter) Tick() int {
	b.used = 0
	ran := 0
	for b.used < b.budget && len(b.queue) > 0 {
		action := b.queue[0]
		b.queue[0] = nil
		b.queue = b.queue[1:]
		b.used++
		ran++
		action()
	}
	if len(b.queue) == 0 {
		b.queue = nil
	}
	return ran
}

func (b *Budgeter) Pending() int      { return len(b.queue) }
func (b *Budgeter) UsedThisTick() int { return b.used }
func (b *Budgeter) Budget() int       { return b.budget }

// SetBudget changes the per-tick budget from the next call on.
func (b *Budgeter) SetBudget(n int) {
	b.budget = n
}
