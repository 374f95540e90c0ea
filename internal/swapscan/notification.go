package swapscan

// ClaimNotification reports a swap claim observed on chain.
type ClaimNotification struct {
	TxID         string // transaction the claim appeared in
	Network      string // network the scanner is bound to
	Outpoint     string // outpoint being claimed
	Preimage     string // revealed preimage
	RedeemScript string // swap redeem script
}

// FundingNotification reports a swap funding output observed on chain. A
// single transaction may fund multiple swaps, producing one notification per
// funded output.
type FundingNotification struct {
	TxID         string // transaction the funding appeared in
	Network      string // network the scanner is bound to
	KeyIndex     int64  // derivation index of the swap key
	Invoice      string // payment request the swap settles
	OutputScript string // script of the funded output
	RedeemScript string // swap redeem script
	Tokens       int64  // amount committed, in base units
	Vout         uint32 // index of the funded output
}

// RefundNotification reports a swap refund observed on chain.
type RefundNotification struct {
	TxID         string // transaction the refund appeared in
	Network      string // network the scanner is bound to
	Outpoint     string // outpoint being refunded
	RedeemScript string // swap redeem script
}

// Notification is one entry on the scanner's output stream. Exactly one of
// the variant pointers or Err is set. Err carries listener errors forwarded
// verbatim, per-transaction detector failures, and unknown swap type faults.
type Notification struct {
	Claim   *ClaimNotification
	Funding *FundingNotification
	Refund  *RefundNotification
	Err     error
}
