package dto

// SubmitItem is one (catalog index, amount, comment) triple from an order
// form. Items with amount <= 0 or an index not present in the catalog are
// skipped during submission.
type SubmitItem struct {
	Index   int
	Amount  int64
	Comment string
}

type SubmitOrderInput struct {
	Table  string
	Waiter string
	Nonce  string
	Items  []SubmitItem
}
