package engine

// BALANCE pushes the account's current nanotoken balance, grounded on
// original_source/src/executor/currency.rs — simplified to a single
// scalar rather than the original's (balance, extra-currencies tuple)
// pair, since extra currencies are not modeled anywhere else in this
// engine either.
func opBalance(e *Engine) error {
	e.Stack.PushInt(e.Balance)
	return nil
}
