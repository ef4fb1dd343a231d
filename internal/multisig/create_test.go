package multisig

import (
	"fmt"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"govsig-go/internal/governance"
)

func testMembers(n int) []solana.PublicKey {
	members := make([]solana.PublicKey, n)
	for i := range members {
		members[i] = solana.NewWallet().PublicKey()
	}
	return members
}

func TestValidateCreateParams(t *testing.T) {
	valid := CreateParams{
		Name:      "treasury-team",
		Members:   testMembers(3),
		Threshold: 2,
	}
	require.NoError(t, validateCreateParams(valid))

	tests := []struct {
		name    string
		mutate  func(*CreateParams)
		wantErr string
	}{
		{"empty name", func(p *CreateParams) { p.Name = "" }, "multisig name"},
		{"no members", func(p *CreateParams) { p.Members = nil }, "at least one member"},
		{"too many members", func(p *CreateParams) { p.Members = testMembers(MaxMembers + 1) }, "at most"},
		{"zero threshold", func(p *CreateParams) { p.Threshold = 0 }, "threshold"},
		{"threshold above members", func(p *CreateParams) { p.Threshold = 4 }, "threshold"},
		{"zero member", func(p *CreateParams) { p.Members[1] = solana.PublicKey{} }, "zero"},
		{"duplicate member", func(p *CreateParams) { p.Members[1] = p.Members[0] }, "duplicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			p.Members = append([]solana.PublicKey(nil), valid.Members...)
			tt.mutate(&p)
			require.ErrorContains(t, validateCreateParams(p), tt.wantErr)
		})
	}
}

// The program requires weight >= ceil(pct * total / 100). The stored
// percentage must make exactly `threshold` approvals tip the vote.
func TestCouncilVotePercentageExact(t *testing.T) {
	minWeight := func(pct uint8, total int) int {
		return (int(pct)*total + 99) / 100
	}

	for n := 1; n <= MaxMembers; n++ {
		for m := 1; m <= n; m++ {
			pct := councilVotePercentage(uint16(m), n)
			require.Equal(t, m, minWeight(pct, n),
				fmt.Sprintf("threshold %d of %d maps to %d%%", m, n, pct))
		}
	}
}

func TestThresholdFromPercentageInvertsCouncilVotePercentage(t *testing.T) {
	for n := 1; n <= MaxMembers; n++ {
		for m := 1; m <= n; m++ {
			pct := councilVotePercentage(uint16(m), n)
			require.Equal(t, uint16(m), thresholdFromPercentage(pct, n))
		}
	}
}

func TestGovernanceConfigRules(t *testing.T) {
	p := CreateParams{
		Name:      "treasury-team",
		Members:   testMembers(4),
		Threshold: 3,
	}
	config := governanceConfig(p)

	require.Equal(t, governance.VoteThresholdDisabled, config.CommunityVoteThreshold.Type)
	require.Equal(t, ^uint64(0), config.MinCommunityWeightToCreateProposal)
	require.Equal(t, governance.VoteThresholdYesVotePercentage, config.CouncilVoteThreshold.Type)
	require.Equal(t, uint8(75), config.CouncilVoteThreshold.Value)
	require.Equal(t, governance.VoteTippingStrict, config.CouncilVoteTipping)
	require.Equal(t, uint64(1), config.MinCouncilWeightToCreateProposal)
	require.Equal(t, DefaultVotingBaseTime, config.VotingBaseTime)

	p.VotingBaseTime = 3600
	p.HoldUpTime = 600
	config = governanceConfig(p)
	require.Equal(t, uint32(3600), config.VotingBaseTime)
	require.Equal(t, uint32(600), config.MinTransactionHoldUpTime)
}

func TestBuildCreateInstructionsSequence(t *testing.T) {
	client := NewClient("http://localhost:8899", "ws://localhost:8900")

	p := CreateParams{
		Name:      "treasury-team",
		Members:   testMembers(3),
		Threshold: 2,
	}
	payer := solana.NewWallet().PublicKey()
	communityMint := solana.NewWallet().PublicKey()
	councilMint := solana.NewWallet().PublicKey()

	instructions, err := client.buildCreateInstructions(p, payer, communityMint, councilMint, 1_000_000)
	require.NoError(t, err)

	// 2x (create account + init mint), realm, one deposit per member,
	// governance, treasury, mint handover, realm handover.
	require.Len(t, instructions, 4+1+len(p.Members)+4)

	require.Equal(t, solana.SystemProgramID, instructions[0].ProgramID())
	require.Equal(t, solana.TokenProgramID, instructions[1].ProgramID())
	for _, ix := range instructions[4 : len(instructions)-2] {
		require.Equal(t, governance.DefaultProgramID, ix.ProgramID())
	}

	// Membership deposits are signed by the payer, not the member.
	deposit := instructions[5]
	data, err := deposit.Data()
	require.NoError(t, err)
	require.Equal(t, uint8(1), data[0])
	members := deposit.Accounts()
	require.False(t, members[3].IsSigner)

	realm, _ := governance.GetRealmPDA(p.Name, client.ProgramID())
	gov, _ := governance.GetGovernancePDA(realm, realm, client.ProgramID())

	// The payer's mint authority over the council mint must end up with
	// the governance PDA, or the payer could enroll members at will.
	mintHandover := instructions[len(instructions)-2]
	require.Equal(t, solana.TokenProgramID, mintHandover.ProgramID())
	mintData, err := mintHandover.Data()
	require.NoError(t, err)
	require.Equal(t, uint8(6), mintData[0])
	require.Equal(t, uint8(0), mintData[1]) // mint-tokens authority
	require.Equal(t, uint8(1), mintData[2]) // new authority present
	require.Equal(t, gov.Bytes(), mintData[3:35])
	mintAccounts := mintHandover.Accounts()
	require.Equal(t, councilMint, mintAccounts[0].PublicKey)
	require.Equal(t, payer, mintAccounts[1].PublicKey)
	require.True(t, mintAccounts[1].IsSigner)

	// The handover points the realm at its own governance PDA.
	handover := instructions[len(instructions)-1]
	handoverAccounts := handover.Accounts()
	require.Equal(t, realm, handoverAccounts[0].PublicKey)
	require.Equal(t, gov, handoverAccounts[2].PublicKey)
}

func TestAddresses(t *testing.T) {
	client := NewClient("http://localhost:8899", "ws://localhost:8900")
	councilMint := solana.NewWallet().PublicKey()

	a := client.Addresses("treasury-team", councilMint)
	realm, _ := governance.GetRealmPDA("treasury-team", client.ProgramID())
	gov, _ := governance.GetGovernancePDA(realm, realm, client.ProgramID())
	treasury, _ := governance.GetNativeTreasuryPDA(gov, client.ProgramID())

	require.Equal(t, realm, a.Realm)
	require.Equal(t, councilMint, a.CouncilMint)
	require.Equal(t, gov, a.Governance)
	require.Equal(t, treasury, a.Treasury)
}
