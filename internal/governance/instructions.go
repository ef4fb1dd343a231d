package governance

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// GovernanceInstruction enum variant indices. Gaps are legacy variants the
// program keeps for layout compatibility.
const (
	ixCreateRealm             uint8 = 0
	ixDepositGoverningTokens  uint8 = 1
	ixWithdrawGoverningTokens uint8 = 2
	ixSetGovernanceDelegate   uint8 = 3
	ixCreateGovernance        uint8 = 4
	ixCreateProposal          uint8 = 6
	ixAddSignatory            uint8 = 7
	ixInsertTransaction       uint8 = 9
	ixRemoveTransaction       uint8 = 10
	ixCancelProposal          uint8 = 11
	ixSignOffProposal         uint8 = 12
	ixCastVote                uint8 = 13
	ixFinalizeVote            uint8 = 14
	ixRelinquishVote          uint8 = 15
	ixExecuteTransaction      uint8 = 16
	ixSetGovernanceConfig     uint8 = 19
	ixSetRealmAuthority       uint8 = 21
	ixCreateTokenOwnerRecord  uint8 = 23
	ixCreateNativeTreasury    uint8 = 25
)

type GoverningTokenType uint8

const (
	GoverningTokenTypeLiquid     GoverningTokenType = 0
	GoverningTokenTypeMembership GoverningTokenType = 1
	GoverningTokenTypeDormant    GoverningTokenType = 2
)

type GoverningTokenConfigArgs struct {
	UseVoterWeightAddin    bool
	UseMaxVoterWeightAddin bool
	TokenType              GoverningTokenType
}

func (a GoverningTokenConfigArgs) marshal(encoder *bin.Encoder) error {
	if err := encoder.WriteBool(a.UseVoterWeightAddin); err != nil {
		return err
	}
	if err := encoder.WriteBool(a.UseMaxVoterWeightAddin); err != nil {
		return err
	}
	return encoder.WriteUint8(uint8(a.TokenType))
}

// RealmConfigArgs is the realm creation argument block.
type RealmConfigArgs struct {
	UseCouncilMint                       bool
	MinCommunityWeightToCreateGovernance uint64
	CommunityMintMaxVoterWeightSource    MintMaxVoterWeightSource
	CommunityTokenConfigArgs             GoverningTokenConfigArgs
	CouncilTokenConfigArgs               GoverningTokenConfigArgs
}

func newIxEncoder(variant uint8) (*bytes.Buffer, *bin.Encoder, error) {
	buf := new(bytes.Buffer)
	encoder := bin.NewBorshEncoder(buf)
	if err := encoder.WriteUint8(variant); err != nil {
		return nil, nil, err
	}
	return buf, encoder, nil
}

// NewCreateRealmInstruction creates the realm plus its config account. The
// council mint is optional; the multisig layer always supplies one.
func NewCreateRealmInstruction(
	name string,
	realmAuthority solana.PublicKey,
	communityMint solana.PublicKey,
	councilMint *solana.PublicKey,
	payer solana.PublicKey,
	configArgs RealmConfigArgs,
	programID solana.PublicKey,
) (solana.Instruction, error) {
	realm, _ := GetRealmPDA(name, programID)
	communityHolding, _ := GetGoverningTokenHoldingPDA(realm, communityMint, programID)
	realmConfig, _ := GetRealmConfigPDA(realm, programID)

	buf, encoder, err := newIxEncoder(ixCreateRealm)
	if err != nil {
		return nil, err
	}
	if err := encoder.WriteString(name); err != nil {
		return nil, err
	}
	if err := encoder.WriteBool(configArgs.UseCouncilMint); err != nil {
		return nil, err
	}
	if err := encoder.WriteUint64(configArgs.MinCommunityWeightToCreateGovernance, bin.LE); err != nil {
		return nil, err
	}
	if err := configArgs.CommunityMintMaxVoterWeightSource.MarshalWithEncoder(encoder); err != nil {
		return nil, err
	}
	if err := configArgs.CommunityTokenConfigArgs.marshal(encoder); err != nil {
		return nil, err
	}
	if err := configArgs.CouncilTokenConfigArgs.marshal(encoder); err != nil {
		return nil, err
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: realm, IsSigner: false, IsWritable: true},
		{PublicKey: realmAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: communityMint, IsSigner: false, IsWritable: false},
		{PublicKey: communityHolding, IsSigner: false, IsWritable: true},
		{PublicKey: payer, IsSigner: true, IsWritable: true},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SysVarRentPubkey, IsSigner: false, IsWritable: false},
	}

	if configArgs.UseCouncilMint {
		if councilMint == nil {
			return nil, fmt.Errorf("council mint required when UseCouncilMint is set")
		}
		councilHolding, _ := GetGoverningTokenHoldingPDA(realm, *councilMint, programID)
		accounts = append(accounts,
			&solana.AccountMeta{PublicKey: *councilMint, IsSigner: false, IsWritable: false},
			&solana.AccountMeta{PublicKey: councilHolding, IsSigner: false, IsWritable: true},
		)
	}

	accounts = append(accounts, &solana.AccountMeta{PublicKey: realmConfig, IsSigner: false, IsWritable: true})

	return solana.NewInstruction(programID, accounts, buf.Bytes()), nil
}

// NewDepositGoverningTokensInstruction deposits governing tokens into the
// realm, activating the owner's voting power. For liquid tokens the source is
// the owner's token account and the owner signs; for membership tokens the
// source is the mint itself and only the mint authority signs.
func NewDepositGoverningTokensInstruction(
	realm solana.PublicKey,
	governingTokenMint solana.PublicKey,
	governingTokenSource solana.PublicKey,
	governingTokenOwner solana.PublicKey,
	ownerSigns bool,
	sourceAuthority solana.PublicKey,
	payer solana.PublicKey,
	amount uint64,
	programID solana.PublicKey,
) (solana.Instruction, error) {
	holding, _ := GetGoverningTokenHoldingPDA(realm, governingTokenMint, programID)
	tokenOwnerRecord, _ := GetTokenOwnerRecordPDA(realm, governingTokenMint, governingTokenOwner, programID)
	realmConfig, _ := GetRealmConfigPDA(realm, programID)

	buf, encoder, err := newIxEncoder(ixDepositGoverningTokens)
	if err != nil {
		return nil, err
	}
	if err := encoder.WriteUint64(amount, bin.LE); err != nil {
		return nil, err
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: realm, IsSigner: false, IsWritable: false},
		{PublicKey: holding, IsSigner: false, IsWritable: true},
		{PublicKey: governingTokenSource, IsSigner: false, IsWritable: true},
		{PublicKey: governingTokenOwner, IsSigner: ownerSigns, IsWritable: false},
		{PublicKey: sourceAuthority, IsSigner: true, IsWritable: false},
		{PublicKey: tokenOwnerRecord, IsSigner: false, IsWritable: true},
		{PublicKey: payer, IsSigner: true, IsWritable: true},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: realmConfig, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(programID, accounts, buf.Bytes()), nil
}

// NewWithdrawGoverningTokensInstruction returns all deposited tokens to the
// destination account and deactivates voting power.
func NewWithdrawGoverningTokensInstruction(
	realm solana.PublicKey,
	governingTokenMint solana.PublicKey,
	governingTokenDestination solana.PublicKey,
	governingTokenOwner solana.PublicKey,
	programID solana.PublicKey,
) (solana.Instruction, error) {
	holding, _ := GetGoverningTokenHoldingPDA(realm, governingTokenMint, programID)
	tokenOwnerRecord, _ := GetTokenOwnerRecordPDA(realm, governingTokenMint, governingTokenOwner, programID)
	realmConfig, _ := GetRealmConfigPDA(realm, programID)

	buf, _, err := newIxEncoder(ixWithdrawGoverningTokens)
	if err != nil {
		return nil, err
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: realm, IsSigner: false, IsWritable: false},
		{PublicKey: holding, IsSigner: false, IsWritable: true},
		{PublicKey: governingTokenDestination, IsSigner: false, IsWritable: true},
		{PublicKey: governingTokenOwner, IsSigner: true, IsWritable: false},
		{PublicKey: tokenOwnerRecord, IsSigner: false, IsWritable: true},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: realmConfig, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(programID, accounts, buf.Bytes()), nil
}

// NewCreateTokenOwnerRecordInstruction creates an empty record so an owner
// can act (e.g. be listed as proposal owner) before depositing.
func NewCreateTokenOwnerRecordInstruction(
	realm solana.PublicKey,
	governingTokenMint solana.PublicKey,
	governingTokenOwner solana.PublicKey,
	payer solana.PublicKey,
	programID solana.PublicKey,
) (solana.Instruction, error) {
	tokenOwnerRecord, _ := GetTokenOwnerRecordPDA(realm, governingTokenMint, governingTokenOwner, programID)

	buf, _, err := newIxEncoder(ixCreateTokenOwnerRecord)
	if err != nil {
		return nil, err
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: realm, IsSigner: false, IsWritable: false},
		{PublicKey: governingTokenOwner, IsSigner: false, IsWritable: false},
		{PublicKey: tokenOwnerRecord, IsSigner: false, IsWritable: true},
		{PublicKey: governingTokenMint, IsSigner: false, IsWritable: false},
		{PublicKey: payer, IsSigner: true, IsWritable: true},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(programID, accounts, buf.Bytes()), nil
}

// NewCreateGovernanceInstruction creates a governance over governedAccount
// with the supplied rules.
func NewCreateGovernanceInstruction(
	realm solana.PublicKey,
	governedAccount solana.PublicKey,
	tokenOwnerRecord solana.PublicKey,
	payer solana.PublicKey,
	createAuthority solana.PublicKey,
	config GovernanceConfig,
	programID solana.PublicKey,
) (solana.Instruction, error) {
	governance, _ := GetGovernancePDA(realm, governedAccount, programID)

	buf, encoder, err := newIxEncoder(ixCreateGovernance)
	if err != nil {
		return nil, err
	}
	if err := config.MarshalWithEncoder(encoder); err != nil {
		return nil, err
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: realm, IsSigner: false, IsWritable: false},
		{PublicKey: governance, IsSigner: false, IsWritable: true},
		{PublicKey: governedAccount, IsSigner: false, IsWritable: false},
		{PublicKey: tokenOwnerRecord, IsSigner: false, IsWritable: false},
		{PublicKey: payer, IsSigner: true, IsWritable: true},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: createAuthority, IsSigner: true, IsWritable: false},
	}

	return solana.NewInstruction(programID, accounts, buf.Bytes()), nil
}

// NewCreateNativeTreasuryInstruction creates the SOL treasury PDA owned by
// the governance.
func NewCreateNativeTreasuryInstruction(
	governance solana.PublicKey,
	payer solana.PublicKey,
	programID solana.PublicKey,
) (solana.Instruction, error) {
	treasury, _ := GetNativeTreasuryPDA(governance, programID)

	buf, _, err := newIxEncoder(ixCreateNativeTreasury)
	if err != nil {
		return nil, err
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: governance, IsSigner: false, IsWritable: false},
		{PublicKey: treasury, IsSigner: false, IsWritable: true},
		{PublicKey: payer, IsSigner: true, IsWritable: true},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(programID, accounts, buf.Bytes()), nil
}

// NewCreateProposalInstruction creates a single-choice proposal with a deny
// option. proposalSeed must be unique per proposal under the governance.
func NewCreateProposalInstruction(
	realm solana.PublicKey,
	governance solana.PublicKey,
	proposalOwnerRecord solana.PublicKey,
	governingTokenMint solana.PublicKey,
	governanceAuthority solana.PublicKey,
	payer solana.PublicKey,
	name string,
	descriptionLink string,
	optionLabel string,
	proposalSeed solana.PublicKey,
	programID solana.PublicKey,
) (solana.Instruction, error) {
	proposal, _ := GetProposalPDA(governance, governingTokenMint, proposalSeed, programID)
	realmConfig, _ := GetRealmConfigPDA(realm, programID)

	buf, encoder, err := newIxEncoder(ixCreateProposal)
	if err != nil {
		return nil, err
	}
	if err := encoder.WriteString(name); err != nil {
		return nil, err
	}
	if err := encoder.WriteString(descriptionLink); err != nil {
		return nil, err
	}
	if err := (VoteType{Kind: VoteTypeSingleChoice}).MarshalWithEncoder(encoder); err != nil {
		return nil, err
	}
	if err := encoder.WriteUint32(1, bin.LE); err != nil {
		return nil, err
	}
	if err := encoder.WriteString(optionLabel); err != nil {
		return nil, err
	}
	if err := encoder.WriteBool(true); err != nil { // use_deny_option
		return nil, err
	}
	if err := encoder.WriteBytes(proposalSeed.Bytes(), false); err != nil {
		return nil, err
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: realm, IsSigner: false, IsWritable: false},
		{PublicKey: proposal, IsSigner: false, IsWritable: true},
		{PublicKey: governance, IsSigner: false, IsWritable: true},
		{PublicKey: proposalOwnerRecord, IsSigner: false, IsWritable: true},
		{PublicKey: governingTokenMint, IsSigner: false, IsWritable: false},
		{PublicKey: governanceAuthority, IsSigner: true, IsWritable: false},
		{PublicKey: payer, IsSigner: true, IsWritable: true},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: realmConfig, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(programID, accounts, buf.Bytes()), nil
}

// NewInsertTransactionInstruction stores inner instructions at the given
// option/transaction index of a draft proposal.
func NewInsertTransactionInstruction(
	governance solana.PublicKey,
	proposal solana.PublicKey,
	tokenOwnerRecord solana.PublicKey,
	governanceAuthority solana.PublicKey,
	payer solana.PublicKey,
	optionIndex uint8,
	index uint16,
	holdUpTime uint32,
	instructions []InstructionData,
	programID solana.PublicKey,
) (solana.Instruction, error) {
	proposalTransaction, _ := GetProposalTransactionPDA(proposal, optionIndex, index, programID)

	buf, encoder, err := newIxEncoder(ixInsertTransaction)
	if err != nil {
		return nil, err
	}
	if err := encoder.WriteUint8(optionIndex); err != nil {
		return nil, err
	}
	if err := encoder.WriteUint16(index, bin.LE); err != nil {
		return nil, err
	}
	if err := encoder.WriteUint32(holdUpTime, bin.LE); err != nil {
		return nil, err
	}
	if err := encoder.WriteUint32(uint32(len(instructions)), bin.LE); err != nil {
		return nil, err
	}
	for _, ix := range instructions {
		if err := ix.MarshalWithEncoder(encoder); err != nil {
			return nil, err
		}
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: governance, IsSigner: false, IsWritable: false},
		{PublicKey: proposal, IsSigner: false, IsWritable: true},
		{PublicKey: tokenOwnerRecord, IsSigner: false, IsWritable: false},
		{PublicKey: governanceAuthority, IsSigner: true, IsWritable: false},
		{PublicKey: proposalTransaction, IsSigner: false, IsWritable: true},
		{PublicKey: payer, IsSigner: true, IsWritable: true},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SysVarRentPubkey, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(programID, accounts, buf.Bytes()), nil
}

// NewSignOffProposalInstruction moves a proposal out of draft. When the
// proposal has no signatories the owner signs off directly and the owner
// record is passed instead of a signatory record.
func NewSignOffProposalInstruction(
	realm solana.PublicKey,
	governance solana.PublicKey,
	proposal solana.PublicKey,
	signatory solana.PublicKey,
	proposalOwnerRecord solana.PublicKey,
	programID solana.PublicKey,
) (solana.Instruction, error) {
	buf, _, err := newIxEncoder(ixSignOffProposal)
	if err != nil {
		return nil, err
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: realm, IsSigner: false, IsWritable: false},
		{PublicKey: governance, IsSigner: false, IsWritable: false},
		{PublicKey: proposal, IsSigner: false, IsWritable: true},
		{PublicKey: signatory, IsSigner: true, IsWritable: false},
		{PublicKey: proposalOwnerRecord, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(programID, accounts, buf.Bytes()), nil
}

// NewCastVoteInstruction casts the voter's full deposited weight.
func NewCastVoteInstruction(
	realm solana.PublicKey,
	governance solana.PublicKey,
	proposal solana.PublicKey,
	proposalOwnerRecord solana.PublicKey,
	voterTokenOwnerRecord solana.PublicKey,
	governanceAuthority solana.PublicKey,
	governingTokenMint solana.PublicKey,
	payer solana.PublicKey,
	vote Vote,
	programID solana.PublicKey,
) (solana.Instruction, error) {
	voteRecord, _ := GetVoteRecordPDA(proposal, voterTokenOwnerRecord, programID)
	realmConfig, _ := GetRealmConfigPDA(realm, programID)

	buf, encoder, err := newIxEncoder(ixCastVote)
	if err != nil {
		return nil, err
	}
	if err := vote.MarshalWithEncoder(encoder); err != nil {
		return nil, err
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: realm, IsSigner: false, IsWritable: false},
		{PublicKey: governance, IsSigner: false, IsWritable: false},
		{PublicKey: proposal, IsSigner: false, IsWritable: true},
		{PublicKey: proposalOwnerRecord, IsSigner: false, IsWritable: true},
		{PublicKey: voterTokenOwnerRecord, IsSigner: false, IsWritable: true},
		{PublicKey: governanceAuthority, IsSigner: true, IsWritable: false},
		{PublicKey: voteRecord, IsSigner: false, IsWritable: true},
		{PublicKey: governingTokenMint, IsSigner: false, IsWritable: false},
		{PublicKey: payer, IsSigner: true, IsWritable: true},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: realmConfig, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(programID, accounts, buf.Bytes()), nil
}

// NewFinalizeVoteInstruction settles a vote after the voting time expired
// without being tipped.
func NewFinalizeVoteInstruction(
	realm solana.PublicKey,
	governance solana.PublicKey,
	proposal solana.PublicKey,
	proposalOwnerRecord solana.PublicKey,
	governingTokenMint solana.PublicKey,
	programID solana.PublicKey,
) (solana.Instruction, error) {
	realmConfig, _ := GetRealmConfigPDA(realm, programID)

	buf, _, err := newIxEncoder(ixFinalizeVote)
	if err != nil {
		return nil, err
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: realm, IsSigner: false, IsWritable: false},
		{PublicKey: governance, IsSigner: false, IsWritable: false},
		{PublicKey: proposal, IsSigner: false, IsWritable: true},
		{PublicKey: proposalOwnerRecord, IsSigner: false, IsWritable: true},
		{PublicKey: governingTokenMint, IsSigner: false, IsWritable: false},
		{PublicKey: realmConfig, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(programID, accounts, buf.Bytes()), nil
}

// NewRelinquishVoteInstruction withdraws a cast vote. Authority and
// beneficiary are only required while voting is still open.
func NewRelinquishVoteInstruction(
	realm solana.PublicKey,
	governance solana.PublicKey,
	proposal solana.PublicKey,
	tokenOwnerRecord solana.PublicKey,
	governingTokenMint solana.PublicKey,
	governanceAuthority *solana.PublicKey,
	beneficiary *solana.PublicKey,
	programID solana.PublicKey,
) (solana.Instruction, error) {
	voteRecord, _ := GetVoteRecordPDA(proposal, tokenOwnerRecord, programID)

	buf, _, err := newIxEncoder(ixRelinquishVote)
	if err != nil {
		return nil, err
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: realm, IsSigner: false, IsWritable: false},
		{PublicKey: governance, IsSigner: false, IsWritable: false},
		{PublicKey: proposal, IsSigner: false, IsWritable: true},
		{PublicKey: tokenOwnerRecord, IsSigner: false, IsWritable: true},
		{PublicKey: voteRecord, IsSigner: false, IsWritable: true},
		{PublicKey: governingTokenMint, IsSigner: false, IsWritable: false},
	}

	if governanceAuthority != nil && beneficiary != nil {
		accounts = append(accounts,
			&solana.AccountMeta{PublicKey: *governanceAuthority, IsSigner: true, IsWritable: false},
			&solana.AccountMeta{PublicKey: *beneficiary, IsSigner: false, IsWritable: true},
		)
	}

	return solana.NewInstruction(programID, accounts, buf.Bytes()), nil
}

// NewCancelProposalInstruction cancels a proposal that has not entered a
// final state.
func NewCancelProposalInstruction(
	realm solana.PublicKey,
	governance solana.PublicKey,
	proposal solana.PublicKey,
	proposalOwnerRecord solana.PublicKey,
	governanceAuthority solana.PublicKey,
	programID solana.PublicKey,
) (solana.Instruction, error) {
	buf, _, err := newIxEncoder(ixCancelProposal)
	if err != nil {
		return nil, err
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: realm, IsSigner: false, IsWritable: false},
		{PublicKey: governance, IsSigner: false, IsWritable: true},
		{PublicKey: proposal, IsSigner: false, IsWritable: true},
		{PublicKey: proposalOwnerRecord, IsSigner: false, IsWritable: true},
		{PublicKey: governanceAuthority, IsSigner: true, IsWritable: false},
	}

	return solana.NewInstruction(programID, accounts, buf.Bytes()), nil
}

// NewExecuteTransactionInstruction runs the stored inner instructions. The
// inner instructions' accounts are appended as remaining accounts with the
// governance-owned signers demoted, since the program signs for them via CPI.
func NewExecuteTransactionInstruction(
	governance solana.PublicKey,
	proposal solana.PublicKey,
	proposalTransaction solana.PublicKey,
	instructions []InstructionData,
	programID solana.PublicKey,
) (solana.Instruction, error) {
	buf, _, err := newIxEncoder(ixExecuteTransaction)
	if err != nil {
		return nil, err
	}

	treasury, _ := GetNativeTreasuryPDA(governance, programID)

	accounts := []*solana.AccountMeta{
		{PublicKey: governance, IsSigner: false, IsWritable: false},
		{PublicKey: proposal, IsSigner: false, IsWritable: true},
		{PublicKey: proposalTransaction, IsSigner: false, IsWritable: true},
	}

	for _, ix := range instructions {
		accounts = append(accounts, &solana.AccountMeta{
			PublicKey: ix.ProgramID, IsSigner: false, IsWritable: false,
		})
		for _, acc := range ix.Accounts {
			isSigner := acc.IsSigner
			if acc.Pubkey.Equals(governance) || acc.Pubkey.Equals(treasury) {
				isSigner = false
			}
			accounts = append(accounts, &solana.AccountMeta{
				PublicKey:  acc.Pubkey,
				IsSigner:   isSigner,
				IsWritable: acc.IsWritable,
			})
		}
	}

	return solana.NewInstruction(programID, accounts, buf.Bytes()), nil
}

// NewSetGovernanceConfigInstruction updates governance rules. The governance
// account itself must sign, so this only works as an inner instruction of an
// executed proposal.
func NewSetGovernanceConfigInstruction(
	governance solana.PublicKey,
	config GovernanceConfig,
	programID solana.PublicKey,
) (solana.Instruction, error) {
	buf, encoder, err := newIxEncoder(ixSetGovernanceConfig)
	if err != nil {
		return nil, err
	}
	if err := config.MarshalWithEncoder(encoder); err != nil {
		return nil, err
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: governance, IsSigner: true, IsWritable: true},
	}

	return solana.NewInstruction(programID, accounts, buf.Bytes()), nil
}

type SetRealmAuthorityAction uint8

const (
	SetRealmAuthorityActionSetUnchecked SetRealmAuthorityAction = 0
	SetRealmAuthorityActionSetChecked   SetRealmAuthorityAction = 1
	SetRealmAuthorityActionRemove       SetRealmAuthorityAction = 2
)

// NewSetRealmAuthorityInstruction transfers (or removes) the realm authority.
// The multisig layer hands authority to the governance PDA after setup.
func NewSetRealmAuthorityInstruction(
	realm solana.PublicKey,
	realmAuthority solana.PublicKey,
	newAuthority *solana.PublicKey,
	action SetRealmAuthorityAction,
	programID solana.PublicKey,
) (solana.Instruction, error) {
	buf, encoder, err := newIxEncoder(ixSetRealmAuthority)
	if err != nil {
		return nil, err
	}
	if err := encoder.WriteUint8(uint8(action)); err != nil {
		return nil, err
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: realm, IsSigner: false, IsWritable: true},
		{PublicKey: realmAuthority, IsSigner: true, IsWritable: false},
	}

	if action != SetRealmAuthorityActionRemove {
		if newAuthority == nil {
			return nil, fmt.Errorf("new authority required unless removing")
		}
		accounts = append(accounts, &solana.AccountMeta{PublicKey: *newAuthority, IsSigner: false, IsWritable: false})
	}

	return solana.NewInstruction(programID, accounts, buf.Bytes()), nil
}

// NewAddSignatoryInstruction adds a signatory required to sign off the
// proposal before voting can start.
func NewAddSignatoryInstruction(
	governance solana.PublicKey,
	proposal solana.PublicKey,
	tokenOwnerRecord solana.PublicKey,
	governanceAuthority solana.PublicKey,
	payer solana.PublicKey,
	signatory solana.PublicKey,
	programID solana.PublicKey,
) (solana.Instruction, error) {
	signatoryRecord, _ := GetSignatoryRecordPDA(proposal, signatory, programID)

	buf, encoder, err := newIxEncoder(ixAddSignatory)
	if err != nil {
		return nil, err
	}
	if err := encoder.WriteBytes(signatory.Bytes(), false); err != nil {
		return nil, err
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: governance, IsSigner: false, IsWritable: false},
		{PublicKey: proposal, IsSigner: false, IsWritable: true},
		{PublicKey: signatoryRecord, IsSigner: false, IsWritable: true},
		{PublicKey: payer, IsSigner: true, IsWritable: true},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: tokenOwnerRecord, IsSigner: false, IsWritable: false},
		{PublicKey: governanceAuthority, IsSigner: true, IsWritable: false},
	}

	return solana.NewInstruction(programID, accounts, buf.Bytes()), nil
}
