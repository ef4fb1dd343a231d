package governance

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

func TestRealmPDADeterministic(t *testing.T) {
	a1, bump1 := GetRealmPDA("treasury-team", DefaultProgramID)
	a2, bump2 := GetRealmPDA("treasury-team", DefaultProgramID)
	require.Equal(t, a1, a2)
	require.Equal(t, bump1, bump2)
	require.False(t, a1.IsZero())

	other, _ := GetRealmPDA("treasury-team-2", DefaultProgramID)
	require.NotEqual(t, a1, other)
}

func TestTokenOwnerRecordPDAPerOwner(t *testing.T) {
	realm, _ := GetRealmPDA("treasury-team", DefaultProgramID)
	mint := solana.NewWallet().PublicKey()

	ownerA := solana.NewWallet().PublicKey()
	ownerB := solana.NewWallet().PublicKey()

	recordA, _ := GetTokenOwnerRecordPDA(realm, mint, ownerA, DefaultProgramID)
	recordB, _ := GetTokenOwnerRecordPDA(realm, mint, ownerB, DefaultProgramID)
	require.NotEqual(t, recordA, recordB)
}

func TestGovernanceDerivationChain(t *testing.T) {
	realm, _ := GetRealmPDA("treasury-team", DefaultProgramID)
	gov, _ := GetGovernancePDA(realm, realm, DefaultProgramID)
	treasury, _ := GetNativeTreasuryPDA(gov, DefaultProgramID)

	require.NotEqual(t, realm, gov)
	require.NotEqual(t, gov, treasury)

	// Same derivation again lands on the same addresses.
	gov2, _ := GetGovernancePDA(realm, realm, DefaultProgramID)
	require.Equal(t, gov, gov2)
}

func TestProposalTransactionPDAIndexes(t *testing.T) {
	proposal := solana.NewWallet().PublicKey()

	tx00, _ := GetProposalTransactionPDA(proposal, 0, 0, DefaultProgramID)
	tx01, _ := GetProposalTransactionPDA(proposal, 0, 1, DefaultProgramID)
	tx10, _ := GetProposalTransactionPDA(proposal, 1, 0, DefaultProgramID)

	require.NotEqual(t, tx00, tx01)
	require.NotEqual(t, tx00, tx10)
	require.NotEqual(t, tx01, tx10)
}

func TestProposalPDAUsesSeed(t *testing.T) {
	realm, _ := GetRealmPDA("treasury-team", DefaultProgramID)
	gov, _ := GetGovernancePDA(realm, realm, DefaultProgramID)
	mint := solana.NewWallet().PublicKey()

	seedA := solana.NewWallet().PublicKey()
	seedB := solana.NewWallet().PublicKey()

	propA, _ := GetProposalPDA(gov, mint, seedA, DefaultProgramID)
	propB, _ := GetProposalPDA(gov, mint, seedB, DefaultProgramID)
	require.NotEqual(t, propA, propB)
}
