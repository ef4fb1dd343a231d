package multisig

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"govsig-go/internal/governance"
)

// castVote fetches the proposal context and submits the member's vote.
func (c *Client) castVote(
	ctx context.Context,
	proposal solana.PublicKey,
	vote governance.Vote,
	voter solana.PrivateKey,
) (solana.Signature, error) {
	proposalAccount, err := governance.GetProposal(ctx, c.rpc, proposal)
	if err != nil {
		return solana.Signature{}, err
	}
	if proposalAccount.State != governance.ProposalStateVoting {
		return solana.Signature{}, fmt.Errorf("proposal is %s, not open for voting", proposalAccount.State)
	}

	govAccount, err := governance.GetGovernance(ctx, c.rpc, proposalAccount.Governance)
	if err != nil {
		return solana.Signature{}, err
	}

	voterKey := voter.PublicKey()
	voterRecord, _ := governance.GetTokenOwnerRecordPDA(
		govAccount.Realm,
		proposalAccount.GoverningTokenMint,
		voterKey,
		c.programID,
	)

	castVote, err := governance.NewCastVoteInstruction(
		govAccount.Realm,
		proposalAccount.Governance,
		proposal,
		proposalAccount.TokenOwnerRecord,
		voterRecord,
		voterKey,
		proposalAccount.GoverningTokenMint,
		voterKey,
		vote,
		c.programID,
	)
	if err != nil {
		return solana.Signature{}, err
	}

	return c.sendAndConfirm(ctx, []solana.Instruction{castVote}, voterKey, voter)
}

// Approve casts the member's full weight in favor. The program tips the
// proposal into Succeeded as soon as the threshold weight is reached.
func (c *Client) Approve(ctx context.Context, proposal solana.PublicKey, voter solana.PrivateKey) (solana.Signature, error) {
	return c.castVote(ctx, proposal, governance.NewApproveVote(), voter)
}

// Reject casts a deny vote.
func (c *Client) Reject(ctx context.Context, proposal solana.PublicKey, voter solana.PrivateKey) (solana.Signature, error) {
	return c.castVote(ctx, proposal, governance.NewDenyVote(), voter)
}

// Abstain casts an abstain vote; it counts toward turnout only.
func (c *Client) Abstain(ctx context.Context, proposal solana.PublicKey, voter solana.PrivateKey) (solana.Signature, error) {
	return c.castVote(ctx, proposal, governance.NewAbstainVote(), voter)
}

// Relinquish withdraws the member's vote. While voting is still open the
// vote weight is removed from the tally; afterwards it only releases the
// vote record rent back to the voter.
func (c *Client) Relinquish(ctx context.Context, proposal solana.PublicKey, voter solana.PrivateKey) (solana.Signature, error) {
	proposalAccount, err := governance.GetProposal(ctx, c.rpc, proposal)
	if err != nil {
		return solana.Signature{}, err
	}

	govAccount, err := governance.GetGovernance(ctx, c.rpc, proposalAccount.Governance)
	if err != nil {
		return solana.Signature{}, err
	}

	voterKey := voter.PublicKey()
	voterRecord, _ := governance.GetTokenOwnerRecordPDA(
		govAccount.Realm,
		proposalAccount.GoverningTokenMint,
		voterKey,
		c.programID,
	)

	var authority, beneficiary *solana.PublicKey
	if proposalAccount.State == governance.ProposalStateVoting {
		authority = &voterKey
		beneficiary = &voterKey
	}

	relinquish, err := governance.NewRelinquishVoteInstruction(
		govAccount.Realm,
		proposalAccount.Governance,
		proposal,
		voterRecord,
		proposalAccount.GoverningTokenMint,
		authority,
		beneficiary,
		c.programID,
	)
	if err != nil {
		return solana.Signature{}, err
	}

	return c.sendAndConfirm(ctx, []solana.Instruction{relinquish}, voterKey, voter)
}

// Finalize settles a proposal whose voting time expired without tipping.
func (c *Client) Finalize(ctx context.Context, proposal solana.PublicKey, payer solana.PrivateKey) (solana.Signature, error) {
	proposalAccount, err := governance.GetProposal(ctx, c.rpc, proposal)
	if err != nil {
		return solana.Signature{}, err
	}

	govAccount, err := governance.GetGovernance(ctx, c.rpc, proposalAccount.Governance)
	if err != nil {
		return solana.Signature{}, err
	}

	finalize, err := governance.NewFinalizeVoteInstruction(
		govAccount.Realm,
		proposalAccount.Governance,
		proposal,
		proposalAccount.TokenOwnerRecord,
		proposalAccount.GoverningTokenMint,
		c.programID,
	)
	if err != nil {
		return solana.Signature{}, err
	}

	return c.sendAndConfirm(ctx, []solana.Instruction{finalize}, payer.PublicKey(), payer)
}

// Cancel withdraws a proposal; only the proposal owner can do this.
func (c *Client) Cancel(ctx context.Context, proposal solana.PublicKey, owner solana.PrivateKey) (solana.Signature, error) {
	proposalAccount, err := governance.GetProposal(ctx, c.rpc, proposal)
	if err != nil {
		return solana.Signature{}, err
	}
	if proposalAccount.State.IsFinal() {
		return solana.Signature{}, fmt.Errorf("proposal is already %s", proposalAccount.State)
	}

	govAccount, err := governance.GetGovernance(ctx, c.rpc, proposalAccount.Governance)
	if err != nil {
		return solana.Signature{}, err
	}

	cancel, err := governance.NewCancelProposalInstruction(
		govAccount.Realm,
		proposalAccount.Governance,
		proposal,
		proposalAccount.TokenOwnerRecord,
		owner.PublicKey(),
		c.programID,
	)
	if err != nil {
		return solana.Signature{}, err
	}

	return c.sendAndConfirm(ctx, []solana.Instruction{cancel}, owner.PublicKey(), owner)
}
