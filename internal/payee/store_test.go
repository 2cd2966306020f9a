package payee

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmachacek/ledgermind/internal/common"
	"github.com/vmachacek/ledgermind/internal/model"
)

func TestStore_LearnWritesEveryTier(t *testing.T) {
	s := NewStore()

	written, err := s.Learn("ACME Corp", "CZ1234", "shopping")
	require.NoError(t, err)
	require.Len(t, written, 3)

	tiers := make(map[model.PayeeTier]model.LearnedPayee, 3)
	for _, entry := range written {
		tiers[entry.Tier] = entry
	}
	assert.Contains(t, tiers, model.TierPayeeIBAN)
	assert.Contains(t, tiers, model.TierIBANOnly)
	assert.Contains(t, tiers, model.TierPayeeOnly)
	assert.Equal(t, "acme corp", tiers[model.TierPayeeIBAN].Payee)
	assert.Equal(t, 3, s.Size())
}

func TestStore_LearnPartialKeys(t *testing.T) {
	tests := []struct {
		name      string
		payee     string
		iban      string
		wantTiers int
	}{
		{"payee only", "ACME", "", 1},
		{"iban only", "", "CZ1234", 1},
		{"both", "ACME", "CZ1234", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			written, err := s.Learn(tt.payee, tt.iban, "cat")
			require.NoError(t, err)
			assert.Len(t, written, tt.wantTiers)
		})
	}
}

func TestStore_LearnRequiresAKey(t *testing.T) {
	s := NewStore()

	_, err := s.Learn("", "", "cat")
	assert.ErrorIs(t, err, common.ErrInvalidLearnInput)

	// Whitespace-only payee is no key either.
	_, err = s.Learn("   ", "", "cat")
	assert.ErrorIs(t, err, common.ErrInvalidLearnInput)
}

func TestStore_LookupTierOrder(t *testing.T) {
	s := NewStore()

	_, err := s.Learn("ACME", "CZ1111", "combined")
	require.NoError(t, err)

	// Exact payee+IBAN hits the combined tier.
	entry, ok := s.Lookup("acme", "CZ1111")
	require.True(t, ok)
	assert.Equal(t, model.TierPayeeIBAN, entry.Tier)
	assert.Equal(t, "combined", entry.Category)

	// Same payee, different IBAN falls back to the payee-only tier.
	entry, ok = s.Lookup("ACME", "CZ9999")
	require.True(t, ok)
	assert.Equal(t, model.TierPayeeOnly, entry.Tier)

	// Unknown payee with the learned IBAN falls back to the IBAN tier.
	entry, ok = s.Lookup("Somebody Else", "CZ1111")
	require.True(t, ok)
	assert.Equal(t, model.TierIBANOnly, entry.Tier)

	// Nothing known.
	_, ok = s.Lookup("nobody", "CZ0000")
	assert.False(t, ok)
}

func TestStore_LookupIBANIgnoresFormatting(t *testing.T) {
	s := NewStore()

	_, err := s.Learn("", "CZ65 0800 0000 1920 0014 5399", "groceries")
	require.NoError(t, err)

	entry, ok := s.Lookup("", "cz6508000000192000145399")
	require.True(t, ok)
	assert.Equal(t, "groceries", entry.Category)
}

func TestStore_ForgetRemovesAllTiersForPayee(t *testing.T) {
	s := NewStore()

	_, err := s.Learn("ACME", "CZ1111", "shopping")
	require.NoError(t, err)

	removed := s.Forget("Acme")
	assert.True(t, removed)

	_, ok := s.Lookup("ACME", "")
	assert.False(t, ok)
	_, ok = s.Lookup("ACME", "CZ1111")
	// The IBAN-only tier is not keyed by payee and survives.
	assert.True(t, ok)

	assert.False(t, s.Forget("ACME"), "second forget finds nothing")
	assert.False(t, s.Forget(""))
}

func TestStore_LearnIsIdempotent(t *testing.T) {
	s := NewStore()

	_, err := s.Learn("ACME", "CZ1111", "shopping")
	require.NoError(t, err)
	first := s.Export()

	_, err = s.Learn("ACME", "CZ1111", "shopping")
	require.NoError(t, err)

	assert.Equal(t, first, s.Export())
}

func TestStore_LearnOverwritesCategory(t *testing.T) {
	s := NewStore()

	_, err := s.Learn("ACME", "", "shopping")
	require.NoError(t, err)
	_, err = s.Learn("ACME", "", "business")
	require.NoError(t, err)

	entry, ok := s.Lookup("ACME", "")
	require.True(t, ok)
	assert.Equal(t, "business", entry.Category)
	assert.Equal(t, 1, s.Size())
}

func TestStore_ExportImportRoundTrip(t *testing.T) {
	s := NewStore()

	_, err := s.Learn("ACME", "CZ1111", "shopping")
	require.NoError(t, err)
	_, err = s.Learn("Kavárna Slavia", "", "dining")
	require.NoError(t, err)

	backup := s.Export()
	sizeBefore := s.Size()

	count := s.Import(backup)
	assert.Equal(t, len(backup), count)
	assert.Equal(t, sizeBefore, s.Size())
	assert.Equal(t, backup, s.Export())

	// Restore into a fresh store.
	fresh := NewStore()
	assert.Equal(t, len(backup), fresh.Import(backup))

	entry, ok := fresh.Lookup("kavarna slavia", "")
	require.True(t, ok)
	assert.Equal(t, "dining", entry.Category)
}

func TestStore_ImportSkipsMalformedKeys(t *testing.T) {
	s := NewStore()

	count := s.Import(map[string]string{
		"nonsense":                 "x",
		"payee_default|acme|":      "shopping",
		"payee_default||CZ111":     "broken tier shape",
		"iban_only_default||CZ111": "groceries",
	})

	assert.Equal(t, 2, count)
	assert.Equal(t, 2, s.Size())
}

func TestStore_Load(t *testing.T) {
	s := NewStore()
	_, err := s.Learn("stale", "", "old")
	require.NoError(t, err)

	count := s.Load([]model.LearnedPayee{
		{Tier: model.TierPayeeOnly, Payee: "acme", Category: "shopping"},
		{Tier: model.TierIBANOnly, IBAN: "CZ1111", Category: "rent"},
	})
	assert.Equal(t, 2, count)
	assert.Equal(t, 2, s.Size())

	// Load replaces, it does not merge.
	_, ok := s.Lookup("stale", "")
	assert.False(t, ok)
}
