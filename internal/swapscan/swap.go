package swapscan

import "context"

// SwapType tags a detected swap record. Only the three declared constants
// are valid; anything else is a protocol violation surfaced as an unknown
// swap type fault during dispatch.
type SwapType string

const (
	SwapTypeClaim   SwapType = "claim"
	SwapTypeFunding SwapType = "funding"
	SwapTypeRefund  SwapType = "refund"
)

// DetectedSwap is one classified swap record produced by the detector for a
// transaction. RedeemScript is common to every variant; the remaining fields
// are populated per type:
//
//   - claim:   Outpoint, Preimage
//   - funding: KeyIndex, Invoice, OutputScript, Tokens, Vout
//   - refund:  Outpoint (the spent outpoint)
type DetectedSwap struct {
	Type         SwapType // declared variant tag, unvalidated at this layer
	RedeemScript string   // script committing funds to the swap conditions

	Outpoint string // claim: claimed outpoint; refund: spent outpoint
	Preimage string // claim: revealed preimage

	KeyIndex     int64  // funding: derivation index of the swap key
	Invoice      string // funding: payment request the swap settles
	OutputScript string // funding: script of the funded output
	Tokens       int64  // funding: amount committed, in base units
	Vout         uint32 // funding: index of the funded output
}

// SwapDetector classifies a transaction into zero or more swap records. It
// is consumed as a black box; the network and cache scope are bound when the
// detector is constructed.
type SwapDetector interface {
	// DetectSwaps returns every swap record found in the transaction, which
	// may be empty. A failure applies to this transaction only.
	DetectSwaps(ctx context.Context, txID string) ([]DetectedSwap, error)
}
