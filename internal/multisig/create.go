package multisig

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"

	"govsig-go/internal/governance"
)

// councilVotePercentage converts an m-of-n threshold into the percentage the
// program applies. The program computes the minimum weight as
// ceil(pct * max_weight / 100), so integer division is exact here: pct
// approvals always reach the threshold and pct-1 never do (for n < 100).
func councilVotePercentage(threshold uint16, members int) uint8 {
	return uint8((100 * int(threshold)) / members)
}

func validateCreateParams(p CreateParams) error {
	if p.Name == "" {
		return errors.New("must supply a multisig name")
	}
	if len(p.Members) == 0 {
		return errors.New("must supply at least one member")
	}
	if len(p.Members) > MaxMembers {
		return fmt.Errorf("at most %d members fit in the creation transaction", MaxMembers)
	}
	if p.Threshold == 0 || int(p.Threshold) > len(p.Members) {
		return errors.New("threshold must be between 1 and the member count")
	}
	seen := make(map[solana.PublicKey]bool, len(p.Members))
	for _, member := range p.Members {
		if member.IsZero() {
			return errors.New("member key must not be zero")
		}
		if seen[member] {
			return fmt.Errorf("duplicate member %s", member)
		}
		seen[member] = true
	}
	return nil
}

func disabledThreshold() governance.VoteThreshold {
	return governance.VoteThreshold{Type: governance.VoteThresholdDisabled}
}

// governanceConfig builds the rules for a fresh multisig: council-only
// voting, strict tipping, threshold from the member count.
func governanceConfig(p CreateParams) governance.GovernanceConfig {
	votingTime := p.VotingBaseTime
	if votingTime == 0 {
		votingTime = DefaultVotingBaseTime
	}

	return governance.GovernanceConfig{
		CommunityVoteThreshold:             disabledThreshold(),
		MinCommunityWeightToCreateProposal: ^uint64(0), // community side disabled
		MinTransactionHoldUpTime:           p.HoldUpTime,
		VotingBaseTime:                     votingTime,
		CommunityVoteTipping:               governance.VoteTippingDisabled,
		CouncilVoteThreshold: governance.VoteThreshold{
			Type:  governance.VoteThresholdYesVotePercentage,
			Value: councilVotePercentage(p.Threshold, len(p.Members)),
		},
		CouncilVetoVoteThreshold:         disabledThreshold(),
		MinCouncilWeightToCreateProposal: 1,
		CouncilVoteTipping:               governance.VoteTippingStrict,
		CommunityVetoVoteThreshold:       disabledThreshold(),
		VotingCoolOffTime:                0,
		DepositExemptProposalCount:       10,
	}
}

// buildCreateInstructions assembles the whole creation sequence: two mints
// (an unused dormant community mint and the council membership mint), the
// realm, one membership deposit per member, the governance, its native
// treasury, and finally the handover of the council mint and the realm
// authority to the governance PDA.
func (c *Client) buildCreateInstructions(
	p CreateParams,
	payer solana.PublicKey,
	communityMint solana.PublicKey,
	councilMint solana.PublicKey,
	mintRent uint64,
) ([]solana.Instruction, error) {
	realm, _ := governance.GetRealmPDA(p.Name, c.programID)
	gov, _ := governance.GetGovernancePDA(realm, realm, c.programID)

	var instructions []solana.Instruction

	for _, mint := range []solana.PublicKey{communityMint, councilMint} {
		instructions = append(instructions,
			system.NewCreateAccountInstruction(
				mintRent,
				token.MINT_SIZE,
				solana.TokenProgramID,
				payer,
				mint,
			).Build(),
			token.NewInitializeMintInstructionBuilder().
				SetDecimals(0).
				SetMintAuthority(payer).
				SetMintAccount(mint).
				SetSysVarRentPubkeyAccount(solana.SysVarRentPubkey).
				Build(),
		)
	}

	createRealm, err := governance.NewCreateRealmInstruction(
		p.Name,
		payer,
		communityMint,
		&councilMint,
		payer,
		governance.RealmConfigArgs{
			UseCouncilMint:                       true,
			MinCommunityWeightToCreateGovernance: 1,
			CommunityMintMaxVoterWeightSource: governance.MintMaxVoterWeightSource{
				Type:  governance.MaxVoterWeightSourceSupplyFraction,
				Value: governance.FullSupplyFraction,
			},
			CommunityTokenConfigArgs: governance.GoverningTokenConfigArgs{
				TokenType: governance.GoverningTokenTypeDormant,
			},
			CouncilTokenConfigArgs: governance.GoverningTokenConfigArgs{
				TokenType: governance.GoverningTokenTypeMembership,
			},
		},
		c.programID,
	)
	if err != nil {
		return nil, err
	}
	instructions = append(instructions, createRealm)

	// Membership tokens are deposited straight from the mint by the mint
	// authority; members do not sign their own enrollment.
	for _, member := range p.Members {
		deposit, err := governance.NewDepositGoverningTokensInstruction(
			realm,
			councilMint,
			councilMint,
			member,
			false,
			payer,
			payer,
			1,
			c.programID,
		)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, deposit)
	}

	firstMemberRecord, _ := governance.GetTokenOwnerRecordPDA(realm, councilMint, p.Members[0], c.programID)
	createGovernance, err := governance.NewCreateGovernanceInstruction(
		realm,
		realm,
		firstMemberRecord,
		payer,
		payer,
		governanceConfig(p),
		c.programID,
	)
	if err != nil {
		return nil, err
	}
	instructions = append(instructions, createGovernance)

	createTreasury, err := governance.NewCreateNativeTreasuryInstruction(gov, payer, c.programID)
	if err != nil {
		return nil, err
	}
	instructions = append(instructions, createTreasury)

	// Hand the council mint to the governance PDA. The payer must not be
	// able to mint membership tokens once the multisig exists.
	instructions = append(instructions, token.NewSetAuthorityInstruction(
		token.AuthorityMintTokens,
		gov,
		councilMint,
		payer,
		nil,
	).Build())

	setAuthority, err := governance.NewSetRealmAuthorityInstruction(
		realm,
		payer,
		&gov,
		governance.SetRealmAuthorityActionSetChecked,
		c.programID,
	)
	if err != nil {
		return nil, err
	}
	instructions = append(instructions, setAuthority)

	return instructions, nil
}

// CreateMultisig creates a new multisig on chain and returns its addresses.
// The payer funds everything and signs together with the two fresh mint
// keypairs; after the transaction confirms, the council mint and the realm
// belong to the governance PDA and the payer cannot enroll further members.
// The dormant community mint stays with the payer but its token type forbids
// deposits, so it carries no voting power.
func (c *Client) CreateMultisig(
	ctx context.Context,
	p CreateParams,
	payer solana.PrivateKey,
) (solana.Signature, MultisigAddresses, error) {
	if err := validateCreateParams(p); err != nil {
		return solana.Signature{}, MultisigAddresses{}, err
	}

	communityMintKey := solana.NewWallet().PrivateKey
	councilMintKey := solana.NewWallet().PrivateKey

	mintRent, err := c.rpc.GetMinimumBalanceForRentExemption(ctx, token.MINT_SIZE, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, MultisigAddresses{}, fmt.Errorf("failed to get rent exemption: %w", err)
	}

	instructions, err := c.buildCreateInstructions(
		p,
		payer.PublicKey(),
		communityMintKey.PublicKey(),
		councilMintKey.PublicKey(),
		mintRent,
	)
	if err != nil {
		return solana.Signature{}, MultisigAddresses{}, err
	}

	sig, err := c.sendAndConfirm(ctx, instructions, payer.PublicKey(), payer, communityMintKey, councilMintKey)
	if err != nil {
		return solana.Signature{}, MultisigAddresses{}, err
	}

	return sig, c.Addresses(p.Name, councilMintKey.PublicKey()), nil
}
