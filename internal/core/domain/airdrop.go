package domain

// AirdropOutcome is the result of minting one derived copy for one recipient.
// Exactly one of ID or Err is set.
type AirdropOutcome struct {
	Recipient string
	ID        string
	Err       error
}

// Succeeded returns true if the recipient received a copy.
func (o AirdropOutcome) Succeeded() bool {
	return o.Err == nil
}
