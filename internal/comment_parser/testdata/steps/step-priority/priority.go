package step_priority

import "context"

// Priority represents a priority level
type Priority int

const (
	Low Priority = iota + 1
	Medium
	High
)

// SetPriority sets the priority level
// @cacik `^priority is {priority}$`
func SetPriority(ctx context.Context, p Priority) error {
	return nil
}

// WaitSeconds waits for whole seconds
// @cacik `^wait {int} seconds$`
func WaitSeconds(ctx context.Context, seconds int) error {
	return nil
}
