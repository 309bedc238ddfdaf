package step_duplicate

import "context"

// FirstDuplicateStep is the first definition of a duplicate step
// @cacik `^I have (\d+) items$`
func FirstDuplicateStep(ctx context.Context, count int) error {
	return nil
}
