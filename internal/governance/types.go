package governance

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Account type discriminator, first byte of every program account.
type AccountType uint8

const (
	AccountTypeUninitialized         AccountType = 0
	AccountTypeRealmV1               AccountType = 1
	AccountTypeTokenOwnerRecordV1    AccountType = 2
	AccountTypeGovernanceV1          AccountType = 3
	AccountTypeProgramGovernanceV1   AccountType = 4
	AccountTypeProposalV1            AccountType = 5
	AccountTypeSignatoryRecordV1     AccountType = 6
	AccountTypeVoteRecordV1          AccountType = 7
	AccountTypeProposalInstructionV1 AccountType = 8
	AccountTypeMintGovernanceV1      AccountType = 9
	AccountTypeTokenGovernanceV1     AccountType = 10
	AccountTypeRealmConfig           AccountType = 11
	AccountTypeVoteRecordV2          AccountType = 12
	AccountTypeProposalTransactionV2 AccountType = 13
	AccountTypeProposalV2            AccountType = 14
	AccountTypeProgramMetadata       AccountType = 15
	AccountTypeRealmV2               AccountType = 16
	AccountTypeTokenOwnerRecordV2    AccountType = 17
	AccountTypeGovernanceV2          AccountType = 18
	AccountTypeProgramGovernanceV2   AccountType = 19
	AccountTypeMintGovernanceV2      AccountType = 20
	AccountTypeTokenGovernanceV2     AccountType = 21
	AccountTypeSignatoryRecordV2     AccountType = 22
)

type ProposalState uint8

const (
	ProposalStateDraft               ProposalState = 0
	ProposalStateSigningOff          ProposalState = 1
	ProposalStateVoting              ProposalState = 2
	ProposalStateSucceeded           ProposalState = 3
	ProposalStateExecuting           ProposalState = 4
	ProposalStateCompleted           ProposalState = 5
	ProposalStateCancelled           ProposalState = 6
	ProposalStateDefeated            ProposalState = 7
	ProposalStateExecutingWithErrors ProposalState = 8
	ProposalStateVetoed              ProposalState = 9
)

func (s ProposalState) String() string {
	switch s {
	case ProposalStateDraft:
		return "Draft"
	case ProposalStateSigningOff:
		return "SigningOff"
	case ProposalStateVoting:
		return "Voting"
	case ProposalStateSucceeded:
		return "Succeeded"
	case ProposalStateExecuting:
		return "Executing"
	case ProposalStateCompleted:
		return "Completed"
	case ProposalStateCancelled:
		return "Cancelled"
	case ProposalStateDefeated:
		return "Defeated"
	case ProposalStateExecutingWithErrors:
		return "ExecutingWithErrors"
	case ProposalStateVetoed:
		return "Vetoed"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(s))
	}
}

// IsFinal reports whether the proposal can no longer change state.
func (s ProposalState) IsFinal() bool {
	switch s {
	case ProposalStateCompleted, ProposalStateCancelled, ProposalStateDefeated, ProposalStateVetoed:
		return true
	}
	return false
}

type VoteThresholdType uint8

const (
	VoteThresholdYesVotePercentage VoteThresholdType = 0
	VoteThresholdQuorumPercentage  VoteThresholdType = 1
	VoteThresholdDisabled          VoteThresholdType = 2
)

// VoteThreshold is the borsh enum { YesVotePercentage(u8), QuorumPercentage(u8), Disabled }.
type VoteThreshold struct {
	Type  VoteThresholdType
	Value uint8 // unused when Type == Disabled
}

func (t VoteThreshold) MarshalWithEncoder(encoder *bin.Encoder) error {
	if err := encoder.WriteUint8(uint8(t.Type)); err != nil {
		return err
	}
	if t.Type == VoteThresholdDisabled {
		return nil
	}
	return encoder.WriteUint8(t.Value)
}

func (t *VoteThreshold) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	v, err := decoder.ReadUint8()
	if err != nil {
		return err
	}
	t.Type = VoteThresholdType(v)
	if t.Type == VoteThresholdDisabled {
		return nil
	}
	t.Value, err = decoder.ReadUint8()
	return err
}

type VoteTipping uint8

const (
	VoteTippingStrict   VoteTipping = 0
	VoteTippingEarly    VoteTipping = 1
	VoteTippingDisabled VoteTipping = 2
)

// MintMaxVoterWeightSource is the borsh enum { SupplyFraction(u64), Absolute(u64) }.
type MintMaxVoterWeightSource struct {
	Type  uint8
	Value uint64
}

const (
	MaxVoterWeightSourceSupplyFraction uint8 = 0
	MaxVoterWeightSourceAbsolute       uint8 = 1
)

// FullSupplyFraction is the 10^10 basis used by the program for "100% of supply".
const FullSupplyFraction uint64 = 10_000_000_000

func (s MintMaxVoterWeightSource) MarshalWithEncoder(encoder *bin.Encoder) error {
	if err := encoder.WriteUint8(s.Type); err != nil {
		return err
	}
	return encoder.WriteUint64(s.Value, bin.LE)
}

func (s *MintMaxVoterWeightSource) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	var err error
	if s.Type, err = decoder.ReadUint8(); err != nil {
		return err
	}
	s.Value, err = decoder.ReadUint64(bin.LE)
	return err
}

// GovernanceConfig mirrors the on-chain governance rules struct.
type GovernanceConfig struct {
	CommunityVoteThreshold             VoteThreshold
	MinCommunityWeightToCreateProposal uint64
	MinTransactionHoldUpTime           uint32
	VotingBaseTime                     uint32
	CommunityVoteTipping               VoteTipping
	CouncilVoteThreshold               VoteThreshold
	CouncilVetoVoteThreshold           VoteThreshold
	MinCouncilWeightToCreateProposal   uint64
	CouncilVoteTipping                 VoteTipping
	CommunityVetoVoteThreshold         VoteThreshold
	VotingCoolOffTime                  uint32
	DepositExemptProposalCount         uint8
}

func (c GovernanceConfig) MarshalWithEncoder(encoder *bin.Encoder) error {
	if err := c.CommunityVoteThreshold.MarshalWithEncoder(encoder); err != nil {
		return err
	}
	if err := encoder.WriteUint64(c.MinCommunityWeightToCreateProposal, bin.LE); err != nil {
		return err
	}
	if err := encoder.WriteUint32(c.MinTransactionHoldUpTime, bin.LE); err != nil {
		return err
	}
	if err := encoder.WriteUint32(c.VotingBaseTime, bin.LE); err != nil {
		return err
	}
	if err := encoder.WriteUint8(uint8(c.CommunityVoteTipping)); err != nil {
		return err
	}
	if err := c.CouncilVoteThreshold.MarshalWithEncoder(encoder); err != nil {
		return err
	}
	if err := c.CouncilVetoVoteThreshold.MarshalWithEncoder(encoder); err != nil {
		return err
	}
	if err := encoder.WriteUint64(c.MinCouncilWeightToCreateProposal, bin.LE); err != nil {
		return err
	}
	if err := encoder.WriteUint8(uint8(c.CouncilVoteTipping)); err != nil {
		return err
	}
	if err := c.CommunityVetoVoteThreshold.MarshalWithEncoder(encoder); err != nil {
		return err
	}
	if err := encoder.WriteUint32(c.VotingCoolOffTime, bin.LE); err != nil {
		return err
	}
	return encoder.WriteUint8(c.DepositExemptProposalCount)
}

func (c *GovernanceConfig) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	if err := c.CommunityVoteThreshold.UnmarshalWithDecoder(decoder); err != nil {
		return err
	}
	var err error
	if c.MinCommunityWeightToCreateProposal, err = decoder.ReadUint64(bin.LE); err != nil {
		return err
	}
	if c.MinTransactionHoldUpTime, err = decoder.ReadUint32(bin.LE); err != nil {
		return err
	}
	if c.VotingBaseTime, err = decoder.ReadUint32(bin.LE); err != nil {
		return err
	}
	tip, err := decoder.ReadUint8()
	if err != nil {
		return err
	}
	c.CommunityVoteTipping = VoteTipping(tip)
	if err := c.CouncilVoteThreshold.UnmarshalWithDecoder(decoder); err != nil {
		return err
	}
	if err := c.CouncilVetoVoteThreshold.UnmarshalWithDecoder(decoder); err != nil {
		return err
	}
	if c.MinCouncilWeightToCreateProposal, err = decoder.ReadUint64(bin.LE); err != nil {
		return err
	}
	if tip, err = decoder.ReadUint8(); err != nil {
		return err
	}
	c.CouncilVoteTipping = VoteTipping(tip)
	if err := c.CommunityVetoVoteThreshold.UnmarshalWithDecoder(decoder); err != nil {
		return err
	}
	if c.VotingCoolOffTime, err = decoder.ReadUint32(bin.LE); err != nil {
		return err
	}
	c.DepositExemptProposalCount, err = decoder.ReadUint8()
	return err
}

type VoteKind uint8

const (
	VoteKindApprove VoteKind = 0
	VoteKindDeny    VoteKind = 1
	VoteKindAbstain VoteKind = 2
	VoteKindVeto    VoteKind = 3
)

type VoteChoice struct {
	Rank             uint8
	WeightPercentage uint8
}

// Vote is the borsh enum { Approve(Vec<VoteChoice>), Deny, Abstain, Veto }.
type Vote struct {
	Kind    VoteKind
	Choices []VoteChoice // Approve only
}

// NewApproveVote is a single-choice 100% approval, the only shape the
// multisig layer ever casts.
func NewApproveVote() Vote {
	return Vote{
		Kind:    VoteKindApprove,
		Choices: []VoteChoice{{Rank: 0, WeightPercentage: 100}},
	}
}

func NewDenyVote() Vote {
	return Vote{Kind: VoteKindDeny}
}

func NewAbstainVote() Vote {
	return Vote{Kind: VoteKindAbstain}
}

func (v Vote) MarshalWithEncoder(encoder *bin.Encoder) error {
	if err := encoder.WriteUint8(uint8(v.Kind)); err != nil {
		return err
	}
	if v.Kind != VoteKindApprove {
		return nil
	}
	if err := encoder.WriteUint32(uint32(len(v.Choices)), bin.LE); err != nil {
		return err
	}
	for _, choice := range v.Choices {
		if err := encoder.WriteUint8(choice.Rank); err != nil {
			return err
		}
		if err := encoder.WriteUint8(choice.WeightPercentage); err != nil {
			return err
		}
	}
	return nil
}

func (v *Vote) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	kind, err := decoder.ReadUint8()
	if err != nil {
		return err
	}
	v.Kind = VoteKind(kind)
	if v.Kind != VoteKindApprove {
		return nil
	}
	count, err := decoder.ReadUint32(bin.LE)
	if err != nil {
		return err
	}
	v.Choices = make([]VoteChoice, count)
	for i := range v.Choices {
		if v.Choices[i].Rank, err = decoder.ReadUint8(); err != nil {
			return err
		}
		if v.Choices[i].WeightPercentage, err = decoder.ReadUint8(); err != nil {
			return err
		}
	}
	return nil
}

// InstructionAccount is the stored form of a solana.AccountMeta.
type InstructionAccount struct {
	Pubkey     solana.PublicKey
	IsSigner   bool
	IsWritable bool
}

// InstructionData is an inner instruction stored inside a proposal
// transaction account.
type InstructionData struct {
	ProgramID solana.PublicKey
	Accounts  []InstructionAccount
	Data      []byte
}

// NewInstructionData converts a built instruction into its stored form.
func NewInstructionData(ix solana.Instruction) (InstructionData, error) {
	data, err := ix.Data()
	if err != nil {
		return InstructionData{}, fmt.Errorf("failed to serialize instruction data: %w", err)
	}

	accounts := make([]InstructionAccount, len(ix.Accounts()))
	for i, meta := range ix.Accounts() {
		accounts[i] = InstructionAccount{
			Pubkey:     meta.PublicKey,
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
		}
	}

	return InstructionData{
		ProgramID: ix.ProgramID(),
		Accounts:  accounts,
		Data:      data,
	}, nil
}

func (d InstructionData) MarshalWithEncoder(encoder *bin.Encoder) error {
	if err := encoder.WriteBytes(d.ProgramID.Bytes(), false); err != nil {
		return err
	}
	if err := encoder.WriteUint32(uint32(len(d.Accounts)), bin.LE); err != nil {
		return err
	}
	for _, acc := range d.Accounts {
		if err := encoder.WriteBytes(acc.Pubkey.Bytes(), false); err != nil {
			return err
		}
		if err := encoder.WriteBool(acc.IsSigner); err != nil {
			return err
		}
		if err := encoder.WriteBool(acc.IsWritable); err != nil {
			return err
		}
	}
	if err := encoder.WriteUint32(uint32(len(d.Data)), bin.LE); err != nil {
		return err
	}
	return encoder.WriteBytes(d.Data, false)
}

func (d *InstructionData) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	var err error
	if d.ProgramID, err = readPublicKey(decoder); err != nil {
		return err
	}
	count, err := decoder.ReadUint32(bin.LE)
	if err != nil {
		return err
	}
	d.Accounts = make([]InstructionAccount, count)
	for i := range d.Accounts {
		if d.Accounts[i].Pubkey, err = readPublicKey(decoder); err != nil {
			return err
		}
		if d.Accounts[i].IsSigner, err = decoder.ReadBool(); err != nil {
			return err
		}
		if d.Accounts[i].IsWritable, err = decoder.ReadBool(); err != nil {
			return err
		}
	}
	size, err := decoder.ReadUint32(bin.LE)
	if err != nil {
		return err
	}
	d.Data, err = decoder.ReadNBytes(int(size))
	return err
}

func readPublicKey(decoder *bin.Decoder) (solana.PublicKey, error) {
	b, err := decoder.ReadNBytes(32)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return solana.PublicKeyFromBytes(b), nil
}

func readOptionalPublicKey(decoder *bin.Decoder) (*solana.PublicKey, error) {
	present, err := decoder.ReadUint8()
	if err != nil {
		return nil, err
	}
	if present == 0 {
		return nil, nil
	}
	pk, err := readPublicKey(decoder)
	if err != nil {
		return nil, err
	}
	return &pk, nil
}

func readOptionalUint64(decoder *bin.Decoder) (*uint64, error) {
	present, err := decoder.ReadUint8()
	if err != nil {
		return nil, err
	}
	if present == 0 {
		return nil, nil
	}
	v, err := decoder.ReadUint64(bin.LE)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func readOptionalInt64(decoder *bin.Decoder) (*int64, error) {
	present, err := decoder.ReadUint8()
	if err != nil {
		return nil, err
	}
	if present == 0 {
		return nil, nil
	}
	v, err := decoder.ReadInt64(bin.LE)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func readOptionalUint32(decoder *bin.Decoder) (*uint32, error) {
	present, err := decoder.ReadUint8()
	if err != nil {
		return nil, err
	}
	if present == 0 {
		return nil, nil
	}
	v, err := decoder.ReadUint32(bin.LE)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
