package governance

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// RealmConfig is the rules struct embedded in a realm account.
type RealmConfig struct {
	Legacy1                              uint8
	Legacy2                              uint8
	Reserved                             [6]uint8
	MinCommunityWeightToCreateGovernance uint64
	CommunityMintMaxVoterWeightSource    MintMaxVoterWeightSource
	CouncilMint                          *solana.PublicKey
}

func (c *RealmConfig) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	var err error
	if c.Legacy1, err = decoder.ReadUint8(); err != nil {
		return err
	}
	if c.Legacy2, err = decoder.ReadUint8(); err != nil {
		return err
	}
	reserved, err := decoder.ReadNBytes(6)
	if err != nil {
		return err
	}
	copy(c.Reserved[:], reserved)
	if c.MinCommunityWeightToCreateGovernance, err = decoder.ReadUint64(bin.LE); err != nil {
		return err
	}
	if err = c.CommunityMintMaxVoterWeightSource.UnmarshalWithDecoder(decoder); err != nil {
		return err
	}
	c.CouncilMint, err = readOptionalPublicKey(decoder)
	return err
}

// Realm is the decoded RealmV2 account.
type Realm struct {
	AccountType   AccountType
	CommunityMint solana.PublicKey
	Config        RealmConfig
	Reserved      [6]uint8
	Legacy1       uint16
	Authority     *solana.PublicKey
	Name          string
}

func (r *Realm) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	accountType, err := decoder.ReadUint8()
	if err != nil {
		return err
	}
	r.AccountType = AccountType(accountType)
	if r.AccountType != AccountTypeRealmV2 && r.AccountType != AccountTypeRealmV1 {
		return fmt.Errorf("not a realm account (type %d)", accountType)
	}
	if r.CommunityMint, err = readPublicKey(decoder); err != nil {
		return err
	}
	if err = r.Config.UnmarshalWithDecoder(decoder); err != nil {
		return err
	}
	reserved, err := decoder.ReadNBytes(6)
	if err != nil {
		return err
	}
	copy(r.Reserved[:], reserved)
	if r.Legacy1, err = decoder.ReadUint16(bin.LE); err != nil {
		return err
	}
	if r.Authority, err = readOptionalPublicKey(decoder); err != nil {
		return err
	}
	r.Name, err = decoder.ReadString()
	return err
}

// TokenOwnerRecord tracks one member's deposited voting weight.
type TokenOwnerRecord struct {
	AccountType                 AccountType
	Realm                       solana.PublicKey
	GoverningTokenMint          solana.PublicKey
	GoverningTokenOwner         solana.PublicKey
	GoverningTokenDepositAmount uint64
	UnrelinquishedVotesCount    uint64
	OutstandingProposalCount    uint8
	Version                     uint8
	Reserved                    [6]uint8
	GovernanceDelegate          *solana.PublicKey
}

func (t *TokenOwnerRecord) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	accountType, err := decoder.ReadUint8()
	if err != nil {
		return err
	}
	t.AccountType = AccountType(accountType)
	if t.AccountType != AccountTypeTokenOwnerRecordV2 && t.AccountType != AccountTypeTokenOwnerRecordV1 {
		return fmt.Errorf("not a token owner record account (type %d)", accountType)
	}
	if t.Realm, err = readPublicKey(decoder); err != nil {
		return err
	}
	if t.GoverningTokenMint, err = readPublicKey(decoder); err != nil {
		return err
	}
	if t.GoverningTokenOwner, err = readPublicKey(decoder); err != nil {
		return err
	}
	if t.GoverningTokenDepositAmount, err = decoder.ReadUint64(bin.LE); err != nil {
		return err
	}
	if t.UnrelinquishedVotesCount, err = decoder.ReadUint64(bin.LE); err != nil {
		return err
	}
	if t.OutstandingProposalCount, err = decoder.ReadUint8(); err != nil {
		return err
	}
	if t.Version, err = decoder.ReadUint8(); err != nil {
		return err
	}
	reserved, err := decoder.ReadNBytes(6)
	if err != nil {
		return err
	}
	copy(t.Reserved[:], reserved)
	t.GovernanceDelegate, err = readOptionalPublicKey(decoder)
	return err
}

// Governance is the decoded GovernanceV2 account.
type Governance struct {
	AccountType              AccountType
	Realm                    solana.PublicKey
	GovernedAccount          solana.PublicKey
	Reserved1                uint32
	Config                   GovernanceConfig
	RequiredSignatoriesCount uint8
	ActiveProposalCount      uint64
}

func (g *Governance) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	accountType, err := decoder.ReadUint8()
	if err != nil {
		return err
	}
	g.AccountType = AccountType(accountType)
	switch g.AccountType {
	case AccountTypeGovernanceV2, AccountTypeGovernanceV1,
		AccountTypeProgramGovernanceV2, AccountTypeMintGovernanceV2, AccountTypeTokenGovernanceV2:
	default:
		return fmt.Errorf("not a governance account (type %d)", accountType)
	}
	if g.Realm, err = readPublicKey(decoder); err != nil {
		return err
	}
	if g.GovernedAccount, err = readPublicKey(decoder); err != nil {
		return err
	}
	if g.Reserved1, err = decoder.ReadUint32(bin.LE); err != nil {
		return err
	}
	if err = g.Config.UnmarshalWithDecoder(decoder); err != nil {
		return err
	}
	// Trailing reserved space, then the v3 counters.
	if _, err = decoder.ReadNBytes(119); err != nil {
		return err
	}
	if g.RequiredSignatoriesCount, err = decoder.ReadUint8(); err != nil {
		return err
	}
	g.ActiveProposalCount, err = decoder.ReadUint64(bin.LE)
	return err
}

type VoteTypeKind uint8

const (
	VoteTypeSingleChoice VoteTypeKind = 0
	VoteTypeMultiChoice  VoteTypeKind = 1
)

// VoteType is the borsh enum { SingleChoice, MultiChoice{..} }. The multisig
// layer only ever creates single-choice proposals but decodes both.
type VoteType struct {
	Kind              VoteTypeKind
	ChoiceType        uint8
	MinVoterOptions   uint8
	MaxVoterOptions   uint8
	MaxWinningOptions uint8
}

func (v VoteType) MarshalWithEncoder(encoder *bin.Encoder) error {
	if err := encoder.WriteUint8(uint8(v.Kind)); err != nil {
		return err
	}
	if v.Kind == VoteTypeSingleChoice {
		return nil
	}
	if err := encoder.WriteUint8(v.ChoiceType); err != nil {
		return err
	}
	if err := encoder.WriteUint8(v.MinVoterOptions); err != nil {
		return err
	}
	if err := encoder.WriteUint8(v.MaxVoterOptions); err != nil {
		return err
	}
	return encoder.WriteUint8(v.MaxWinningOptions)
}

func (v *VoteType) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	kind, err := decoder.ReadUint8()
	if err != nil {
		return err
	}
	v.Kind = VoteTypeKind(kind)
	if v.Kind == VoteTypeSingleChoice {
		return nil
	}
	if v.ChoiceType, err = decoder.ReadUint8(); err != nil {
		return err
	}
	if v.MinVoterOptions, err = decoder.ReadUint8(); err != nil {
		return err
	}
	if v.MaxVoterOptions, err = decoder.ReadUint8(); err != nil {
		return err
	}
	v.MaxWinningOptions, err = decoder.ReadUint8()
	return err
}

type ProposalOption struct {
	Label                     string
	VoteWeight                uint64
	VoteResult                uint8
	TransactionsExecutedCount uint16
	TransactionsCount         uint16
	TransactionsNextIndex     uint16
}

func (o *ProposalOption) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	var err error
	if o.Label, err = decoder.ReadString(); err != nil {
		return err
	}
	if o.VoteWeight, err = decoder.ReadUint64(bin.LE); err != nil {
		return err
	}
	if o.VoteResult, err = decoder.ReadUint8(); err != nil {
		return err
	}
	if o.TransactionsExecutedCount, err = decoder.ReadUint16(bin.LE); err != nil {
		return err
	}
	if o.TransactionsCount, err = decoder.ReadUint16(bin.LE); err != nil {
		return err
	}
	o.TransactionsNextIndex, err = decoder.ReadUint16(bin.LE)
	return err
}

// Proposal is the decoded ProposalV2 account.
type Proposal struct {
	AccountType               AccountType
	Governance                solana.PublicKey
	GoverningTokenMint        solana.PublicKey
	State                     ProposalState
	TokenOwnerRecord          solana.PublicKey
	SignatoriesCount          uint8
	SignatoriesSignedOffCount uint8
	VoteType                  VoteType
	Options                   []ProposalOption
	DenyVoteWeight            *uint64
	Reserved1                 uint8
	AbstainVoteWeight         *uint64
	StartVotingAt             *int64
	DraftAt                   int64
	SigningOffAt              *int64
	VotingAt                  *int64
	VotingAtSlot              *uint64
	VotingCompletedAt         *int64
	ExecutingAt               *int64
	ClosedAt                  *int64
	ExecutionFlags            uint8
	MaxVoteWeight             *uint64
	MaxVotingTime             *uint32
	VoteThreshold             *VoteThreshold
	Name                      string
	DescriptionLink           string
	VetoVoteWeight            uint64
}

func (p *Proposal) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	accountType, err := decoder.ReadUint8()
	if err != nil {
		return err
	}
	p.AccountType = AccountType(accountType)
	if p.AccountType != AccountTypeProposalV2 {
		return fmt.Errorf("not a proposal account (type %d)", accountType)
	}
	if p.Governance, err = readPublicKey(decoder); err != nil {
		return err
	}
	if p.GoverningTokenMint, err = readPublicKey(decoder); err != nil {
		return err
	}
	state, err := decoder.ReadUint8()
	if err != nil {
		return err
	}
	p.State = ProposalState(state)
	if p.TokenOwnerRecord, err = readPublicKey(decoder); err != nil {
		return err
	}
	if p.SignatoriesCount, err = decoder.ReadUint8(); err != nil {
		return err
	}
	if p.SignatoriesSignedOffCount, err = decoder.ReadUint8(); err != nil {
		return err
	}
	if err = p.VoteType.UnmarshalWithDecoder(decoder); err != nil {
		return err
	}
	optionCount, err := decoder.ReadUint32(bin.LE)
	if err != nil {
		return err
	}
	p.Options = make([]ProposalOption, optionCount)
	for i := range p.Options {
		if err = p.Options[i].UnmarshalWithDecoder(decoder); err != nil {
			return err
		}
	}
	if p.DenyVoteWeight, err = readOptionalUint64(decoder); err != nil {
		return err
	}
	if p.Reserved1, err = decoder.ReadUint8(); err != nil {
		return err
	}
	if p.AbstainVoteWeight, err = readOptionalUint64(decoder); err != nil {
		return err
	}
	if p.StartVotingAt, err = readOptionalInt64(decoder); err != nil {
		return err
	}
	if p.DraftAt, err = decoder.ReadInt64(bin.LE); err != nil {
		return err
	}
	if p.SigningOffAt, err = readOptionalInt64(decoder); err != nil {
		return err
	}
	if p.VotingAt, err = readOptionalInt64(decoder); err != nil {
		return err
	}
	if p.VotingAtSlot, err = readOptionalUint64(decoder); err != nil {
		return err
	}
	if p.VotingCompletedAt, err = readOptionalInt64(decoder); err != nil {
		return err
	}
	if p.ExecutingAt, err = readOptionalInt64(decoder); err != nil {
		return err
	}
	if p.ClosedAt, err = readOptionalInt64(decoder); err != nil {
		return err
	}
	if p.ExecutionFlags, err = decoder.ReadUint8(); err != nil {
		return err
	}
	if p.MaxVoteWeight, err = readOptionalUint64(decoder); err != nil {
		return err
	}
	if p.MaxVotingTime, err = readOptionalUint32(decoder); err != nil {
		return err
	}
	threshold, err := decoder.ReadUint8()
	if err != nil {
		return err
	}
	if threshold != 0 {
		p.VoteThreshold = &VoteThreshold{}
		if err = p.VoteThreshold.UnmarshalWithDecoder(decoder); err != nil {
			return err
		}
	}
	if _, err = decoder.ReadNBytes(64); err != nil {
		return err
	}
	if p.Name, err = decoder.ReadString(); err != nil {
		return err
	}
	if p.DescriptionLink, err = decoder.ReadString(); err != nil {
		return err
	}
	p.VetoVoteWeight, err = decoder.ReadUint64(bin.LE)
	return err
}

// YesVoteWeight is the approval tally of a single-choice proposal.
func (p *Proposal) YesVoteWeight() uint64 {
	if len(p.Options) == 0 {
		return 0
	}
	return p.Options[0].VoteWeight
}

func (p *Proposal) NoVoteWeight() uint64 {
	if p.DenyVoteWeight == nil {
		return 0
	}
	return *p.DenyVoteWeight
}

// VoteRecord is the decoded VoteRecordV2 account.
type VoteRecord struct {
	AccountType         AccountType
	Proposal            solana.PublicKey
	GoverningTokenOwner solana.PublicKey
	IsRelinquished      bool
	VoterWeight         uint64
	Vote                Vote
}

func (r *VoteRecord) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	accountType, err := decoder.ReadUint8()
	if err != nil {
		return err
	}
	r.AccountType = AccountType(accountType)
	if r.AccountType != AccountTypeVoteRecordV2 && r.AccountType != AccountTypeVoteRecordV1 {
		return fmt.Errorf("not a vote record account (type %d)", accountType)
	}
	if r.Proposal, err = readPublicKey(decoder); err != nil {
		return err
	}
	if r.GoverningTokenOwner, err = readPublicKey(decoder); err != nil {
		return err
	}
	if r.IsRelinquished, err = decoder.ReadBool(); err != nil {
		return err
	}
	if r.VoterWeight, err = decoder.ReadUint64(bin.LE); err != nil {
		return err
	}
	return r.Vote.UnmarshalWithDecoder(decoder)
}

// ProposalTransaction is the decoded ProposalTransactionV2 account holding
// the inner instructions to run once the proposal succeeds.
type ProposalTransaction struct {
	AccountType      AccountType
	Proposal         solana.PublicKey
	OptionIndex      uint8
	TransactionIndex uint16
	HoldUpTime       uint32
	Instructions     []InstructionData
	ExecutedAt       *int64
	ExecutionStatus  uint8
}

func (t *ProposalTransaction) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	accountType, err := decoder.ReadUint8()
	if err != nil {
		return err
	}
	t.AccountType = AccountType(accountType)
	if t.AccountType != AccountTypeProposalTransactionV2 {
		return fmt.Errorf("not a proposal transaction account (type %d)", accountType)
	}
	if t.Proposal, err = readPublicKey(decoder); err != nil {
		return err
	}
	if t.OptionIndex, err = decoder.ReadUint8(); err != nil {
		return err
	}
	if t.TransactionIndex, err = decoder.ReadUint16(bin.LE); err != nil {
		return err
	}
	if t.HoldUpTime, err = decoder.ReadUint32(bin.LE); err != nil {
		return err
	}
	count, err := decoder.ReadUint32(bin.LE)
	if err != nil {
		return err
	}
	t.Instructions = make([]InstructionData, count)
	for i := range t.Instructions {
		if err = t.Instructions[i].UnmarshalWithDecoder(decoder); err != nil {
			return err
		}
	}
	if t.ExecutedAt, err = readOptionalInt64(decoder); err != nil {
		return err
	}
	t.ExecutionStatus, err = decoder.ReadUint8()
	return err
}
