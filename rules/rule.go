package rules

import "github.com/expr-lang/expr/vm"

// Rule maps a condition over the assessed turn to a strategy.
// The classifier evaluates rules by priority and the first true one wins.
type Rule struct {
	Name         string      // human-readable identifier
	Priority     int         // higher = evaluated first
	ConditionSrc string      // expr source (preserved for serialization)
	Strategy     Strategy    // outcome when the condition holds
	program      *vm.Program // compiled bytecode
}
