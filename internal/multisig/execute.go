package multisig

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"govsig-go/internal/governance"
)

// Execute runs the single transaction attached to an approved proposal.
// Anyone can pay for execution; the inner instructions are signed by the
// governance and treasury PDAs on chain, not by the payer.
func (c *Client) Execute(ctx context.Context, proposal solana.PublicKey, payer solana.PrivateKey) (solana.Signature, error) {
	proposalAccount, err := governance.GetProposal(ctx, c.rpc, proposal)
	if err != nil {
		return solana.Signature{}, err
	}

	switch proposalAccount.State {
	case governance.ProposalStateSucceeded, governance.ProposalStateExecuting:
	default:
		return solana.Signature{}, fmt.Errorf("proposal is %s, not ready for execution", proposalAccount.State)
	}

	txAddress, _ := governance.GetProposalTransactionPDA(proposal, 0, 0, c.programID)
	proposalTx, err := governance.GetProposalTransaction(ctx, c.rpc, txAddress)
	if err != nil {
		return solana.Signature{}, err
	}
	if proposalTx.ExecutedAt != nil {
		return solana.Signature{}, fmt.Errorf("transaction was already executed")
	}

	execute, err := governance.NewExecuteTransactionInstruction(
		proposalAccount.Governance,
		proposal,
		txAddress,
		proposalTx.Instructions,
		c.programID,
	)
	if err != nil {
		return solana.Signature{}, err
	}

	return c.sendAndConfirm(ctx, []solana.Instruction{execute}, payer.PublicKey(), payer)
}
