package governance

import (
	"bytes"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

func writeKey(t *testing.T, encoder *bin.Encoder, key solana.PublicKey) {
	t.Helper()
	require.NoError(t, encoder.WriteBytes(key.Bytes(), false))
}

func TestRealmDecode(t *testing.T) {
	communityMint := solana.NewWallet().PublicKey()
	councilMint := solana.NewWallet().PublicKey()
	authority := solana.NewWallet().PublicKey()

	var buf bytes.Buffer
	enc := bin.NewBorshEncoder(&buf)
	require.NoError(t, enc.WriteUint8(uint8(AccountTypeRealmV2)))
	writeKey(t, enc, communityMint)
	// RealmConfig
	require.NoError(t, enc.WriteUint8(0)) // legacy1
	require.NoError(t, enc.WriteUint8(0)) // legacy2
	require.NoError(t, enc.WriteBytes(make([]byte, 6), false))
	require.NoError(t, enc.WriteUint64(1, bin.LE))
	require.NoError(t, enc.WriteUint8(MaxVoterWeightSourceSupplyFraction))
	require.NoError(t, enc.WriteUint64(FullSupplyFraction, bin.LE))
	require.NoError(t, enc.WriteUint8(1)) // council mint present
	writeKey(t, enc, councilMint)
	// Realm tail
	require.NoError(t, enc.WriteBytes(make([]byte, 6), false))
	require.NoError(t, enc.WriteUint16(0, bin.LE))
	require.NoError(t, enc.WriteUint8(1)) // authority present
	writeKey(t, enc, authority)
	require.NoError(t, enc.WriteString("treasury-team"))

	var realm Realm
	require.NoError(t, realm.UnmarshalWithDecoder(bin.NewBorshDecoder(buf.Bytes())))

	require.Equal(t, AccountTypeRealmV2, realm.AccountType)
	require.Equal(t, communityMint, realm.CommunityMint)
	require.NotNil(t, realm.Config.CouncilMint)
	require.Equal(t, councilMint, *realm.Config.CouncilMint)
	require.NotNil(t, realm.Authority)
	require.Equal(t, authority, *realm.Authority)
	require.Equal(t, "treasury-team", realm.Name)
}

func TestRealmDecodeRejectsOtherTypes(t *testing.T) {
	var buf bytes.Buffer
	enc := bin.NewBorshEncoder(&buf)
	require.NoError(t, enc.WriteUint8(uint8(AccountTypeGovernanceV2)))

	var realm Realm
	err := realm.UnmarshalWithDecoder(bin.NewBorshDecoder(buf.Bytes()))
	require.ErrorContains(t, err, "not a realm account")
}

func TestTokenOwnerRecordDecode(t *testing.T) {
	realm := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()

	var buf bytes.Buffer
	enc := bin.NewBorshEncoder(&buf)
	require.NoError(t, enc.WriteUint8(uint8(AccountTypeTokenOwnerRecordV2)))
	writeKey(t, enc, realm)
	writeKey(t, enc, mint)
	writeKey(t, enc, owner)
	require.NoError(t, enc.WriteUint64(1, bin.LE)) // deposit amount
	require.NoError(t, enc.WriteUint64(0, bin.LE)) // unrelinquished votes
	require.NoError(t, enc.WriteUint8(2))          // outstanding proposals
	require.NoError(t, enc.WriteUint8(1))          // version
	require.NoError(t, enc.WriteBytes(make([]byte, 6), false))
	require.NoError(t, enc.WriteUint8(0)) // no delegate

	var record TokenOwnerRecord
	require.NoError(t, record.UnmarshalWithDecoder(bin.NewBorshDecoder(buf.Bytes())))

	require.Equal(t, realm, record.Realm)
	require.Equal(t, mint, record.GoverningTokenMint)
	require.Equal(t, owner, record.GoverningTokenOwner)
	require.Equal(t, uint64(1), record.GoverningTokenDepositAmount)
	require.Equal(t, uint8(2), record.OutstandingProposalCount)
	require.Nil(t, record.GovernanceDelegate)
}

func TestGovernanceDecode(t *testing.T) {
	realm := solana.NewWallet().PublicKey()
	governed := solana.NewWallet().PublicKey()

	config := GovernanceConfig{
		CommunityVoteThreshold:             VoteThreshold{Type: VoteThresholdDisabled},
		MinCommunityWeightToCreateProposal: ^uint64(0),
		MinTransactionHoldUpTime:           0,
		VotingBaseTime:                     259200,
		CommunityVoteTipping:               VoteTippingDisabled,
		CouncilVoteThreshold:               VoteThreshold{Type: VoteThresholdYesVotePercentage, Value: 60},
		CouncilVetoVoteThreshold:           VoteThreshold{Type: VoteThresholdDisabled},
		MinCouncilWeightToCreateProposal:   1,
		CouncilVoteTipping:                 VoteTippingStrict,
		CommunityVetoVoteThreshold:         VoteThreshold{Type: VoteThresholdDisabled},
		VotingCoolOffTime:                  0,
		DepositExemptProposalCount:         10,
	}

	var buf bytes.Buffer
	enc := bin.NewBorshEncoder(&buf)
	require.NoError(t, enc.WriteUint8(uint8(AccountTypeGovernanceV2)))
	writeKey(t, enc, realm)
	writeKey(t, enc, governed)
	require.NoError(t, enc.WriteUint32(0, bin.LE))
	require.NoError(t, config.MarshalWithEncoder(enc))
	require.NoError(t, enc.WriteBytes(make([]byte, 119), false))
	require.NoError(t, enc.WriteUint8(0))          // required signatories
	require.NoError(t, enc.WriteUint64(3, bin.LE)) // active proposals

	var gov Governance
	require.NoError(t, gov.UnmarshalWithDecoder(bin.NewBorshDecoder(buf.Bytes())))

	require.Equal(t, realm, gov.Realm)
	require.Equal(t, governed, gov.GovernedAccount)
	require.Equal(t, config, gov.Config)
	require.Equal(t, uint64(3), gov.ActiveProposalCount)
}

func TestVoteRecordDecode(t *testing.T) {
	proposal := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()

	var buf bytes.Buffer
	enc := bin.NewBorshEncoder(&buf)
	require.NoError(t, enc.WriteUint8(uint8(AccountTypeVoteRecordV2)))
	writeKey(t, enc, proposal)
	writeKey(t, enc, owner)
	require.NoError(t, enc.WriteBool(false))
	require.NoError(t, enc.WriteUint64(1, bin.LE))
	require.NoError(t, NewApproveVote().MarshalWithEncoder(enc))

	var record VoteRecord
	require.NoError(t, record.UnmarshalWithDecoder(bin.NewBorshDecoder(buf.Bytes())))

	require.Equal(t, proposal, record.Proposal)
	require.Equal(t, owner, record.GoverningTokenOwner)
	require.False(t, record.IsRelinquished)
	require.Equal(t, uint64(1), record.VoterWeight)
	require.Equal(t, VoteKindApprove, record.Vote.Kind)
	require.Len(t, record.Vote.Choices, 1)
}

func TestProposalDecode(t *testing.T) {
	gov := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()
	ownerRecord := solana.NewWallet().PublicKey()

	var buf bytes.Buffer
	enc := bin.NewBorshEncoder(&buf)
	require.NoError(t, enc.WriteUint8(uint8(AccountTypeProposalV2)))
	writeKey(t, enc, gov)
	writeKey(t, enc, mint)
	require.NoError(t, enc.WriteUint8(uint8(ProposalStateVoting)))
	writeKey(t, enc, ownerRecord)
	require.NoError(t, enc.WriteUint8(0)) // signatories
	require.NoError(t, enc.WriteUint8(0)) // signed off
	require.NoError(t, enc.WriteUint8(uint8(VoteTypeSingleChoice)))
	require.NoError(t, enc.WriteUint32(1, bin.LE)) // one option
	require.NoError(t, enc.WriteString("Approve"))
	require.NoError(t, enc.WriteUint64(2, bin.LE)) // yes weight
	require.NoError(t, enc.WriteUint8(0))          // vote result
	require.NoError(t, enc.WriteUint16(0, bin.LE))
	require.NoError(t, enc.WriteUint16(1, bin.LE))
	require.NoError(t, enc.WriteUint16(1, bin.LE))
	require.NoError(t, enc.WriteUint8(1)) // deny weight present
	require.NoError(t, enc.WriteUint64(1, bin.LE))
	require.NoError(t, enc.WriteUint8(0)) // reserved1
	require.NoError(t, enc.WriteUint8(0)) // no abstain weight
	require.NoError(t, enc.WriteUint8(0)) // no start voting at
	require.NoError(t, enc.WriteInt64(1700000000, bin.LE))
	require.NoError(t, enc.WriteUint8(0)) // no signing off at
	require.NoError(t, enc.WriteUint8(1)) // voting at present
	require.NoError(t, enc.WriteInt64(1700000100, bin.LE))
	require.NoError(t, enc.WriteUint8(0)) // no voting slot
	require.NoError(t, enc.WriteUint8(0)) // not completed
	require.NoError(t, enc.WriteUint8(0)) // not executing
	require.NoError(t, enc.WriteUint8(0)) // not closed
	require.NoError(t, enc.WriteUint8(0)) // execution flags
	require.NoError(t, enc.WriteUint8(1)) // max vote weight present
	require.NoError(t, enc.WriteUint64(3, bin.LE))
	require.NoError(t, enc.WriteUint8(0)) // no max voting time
	require.NoError(t, enc.WriteUint8(1)) // threshold present
	require.NoError(t, enc.WriteUint8(uint8(VoteThresholdYesVotePercentage)))
	require.NoError(t, enc.WriteUint8(60))
	require.NoError(t, enc.WriteBytes(make([]byte, 64), false))
	require.NoError(t, enc.WriteString("Pay the audit invoice"))
	require.NoError(t, enc.WriteString("https://example.com/invoice"))
	require.NoError(t, enc.WriteUint64(0, bin.LE)) // veto weight

	var proposal Proposal
	require.NoError(t, proposal.UnmarshalWithDecoder(bin.NewBorshDecoder(buf.Bytes())))

	require.Equal(t, gov, proposal.Governance)
	require.Equal(t, ProposalStateVoting, proposal.State)
	require.Equal(t, "Pay the audit invoice", proposal.Name)
	require.Equal(t, uint64(2), proposal.YesVoteWeight())
	require.Equal(t, uint64(1), proposal.NoVoteWeight())
	require.NotNil(t, proposal.VotingAt)
	require.Equal(t, int64(1700000100), *proposal.VotingAt)
	require.NotNil(t, proposal.VoteThreshold)
	require.Equal(t, uint8(60), proposal.VoteThreshold.Value)
}
