package step_unknown

// PickColour refers to a type nobody declared
// @cacik `^I pick {colour}$`
func PickColour(colour string) {}
