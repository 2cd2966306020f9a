package model

import "time"

// PayeeTier identifies which part of the (payee, IBAN) composite key a
// learned entry was written under.
type PayeeTier string

// Learned payee tiers, in lookup order.
const (
	// TierPayeeIBAN is the combined (normalized payee, IBAN) key.
	TierPayeeIBAN PayeeTier = "iban_default"
	// TierIBANOnly keys by counterparty IBAN alone.
	TierIBANOnly PayeeTier = "iban_only_default"
	// TierPayeeOnly keys by normalized payee name alone.
	TierPayeeOnly PayeeTier = "payee_default"
)

// LearnedPayee is one entry of the hierarchical payee-to-category memory.
// For a given normalized payee there is at most one entry per tier.
type LearnedPayee struct {
	LastUpdated time.Time
	Payee       string // normalized; empty for TierIBANOnly
	IBAN        string // empty for TierPayeeOnly
	Category    string
	Tier        PayeeTier
}
