package engine

// directive is what a rule returns to the executor. A zero directive
// means "not applicable": the executor tries the next rule in the list.
type directive struct {
	target  string
	event   string
	epsilon bool
	fired   bool
}

// declined tells the executor the rule did not apply.
func declined() directive {
	return directive{}
}

// chain re-enters execution at target within the same turn, without
// yielding a reply first. The event tag is informational only.
func chain(target, event string) directive {
	return directive{target: target, event: event, epsilon: true, fired: true}
}

// finish sets the durable state to target and ends the turn.
func finish(target, event string) directive {
	return directive{target: target, event: event, fired: true}
}
