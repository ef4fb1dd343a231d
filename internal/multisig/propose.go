package multisig

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"govsig-go/internal/governance"
)

type ProposeParams struct {
	Realm solana.PublicKey

	// Name titles the proposal; DescriptionLink may point at a fuller
	// writeup and can be empty.
	Name            string
	DescriptionLink string

	// Instructions are executed by the governance once the proposal
	// passes, typically treasury transfers signed by the treasury PDA.
	Instructions []solana.Instruction
}

// ProposeTransaction creates a proposal, attaches the inner instructions,
// and signs it off into voting, all in one transaction signed by the
// proposing member.
func (c *Client) ProposeTransaction(
	ctx context.Context,
	p ProposeParams,
	proposer solana.PrivateKey,
) (solana.Signature, solana.PublicKey, error) {
	if p.Name == "" {
		return solana.Signature{}, solana.PublicKey{}, errors.New("must supply a proposal name")
	}
	if len(p.Instructions) == 0 {
		return solana.Signature{}, solana.PublicKey{}, errors.New("must supply at least one instruction")
	}

	realm, err := governance.GetRealm(ctx, c.rpc, p.Realm)
	if err != nil {
		return solana.Signature{}, solana.PublicKey{}, err
	}
	if realm.Config.CouncilMint == nil {
		return solana.Signature{}, solana.PublicKey{}, errors.New("realm has no council mint; not a multisig realm")
	}
	councilMint := *realm.Config.CouncilMint

	gov, _ := governance.GetGovernancePDA(p.Realm, p.Realm, c.programID)
	govAccount, err := governance.GetGovernance(ctx, c.rpc, gov)
	if err != nil {
		return solana.Signature{}, solana.PublicKey{}, err
	}

	proposerKey := proposer.PublicKey()
	ownerRecord, _ := governance.GetTokenOwnerRecordPDA(p.Realm, councilMint, proposerKey, c.programID)
	record, err := governance.GetTokenOwnerRecord(ctx, c.rpc, ownerRecord)
	if err != nil {
		return solana.Signature{}, solana.PublicKey{}, fmt.Errorf("proposer is not a member of this multisig: %w", err)
	}
	if record.GoverningTokenDepositAmount == 0 {
		return solana.Signature{}, solana.PublicKey{}, errors.New("proposer has no deposited voting weight")
	}

	// A fresh seed keeps proposal addresses unique, so a member can run
	// any number of proposals concurrently.
	proposalSeed := solana.NewWallet().PrivateKey.PublicKey()
	proposal, _ := governance.GetProposalPDA(gov, councilMint, proposalSeed, c.programID)

	createProposal, err := governance.NewCreateProposalInstruction(
		p.Realm,
		gov,
		ownerRecord,
		councilMint,
		proposerKey,
		proposerKey,
		p.Name,
		p.DescriptionLink,
		"Approve",
		proposalSeed,
		c.programID,
	)
	if err != nil {
		return solana.Signature{}, solana.PublicKey{}, err
	}

	inner := make([]governance.InstructionData, len(p.Instructions))
	for i, ix := range p.Instructions {
		if inner[i], err = governance.NewInstructionData(ix); err != nil {
			return solana.Signature{}, solana.PublicKey{}, err
		}
	}

	insertTransaction, err := governance.NewInsertTransactionInstruction(
		gov,
		proposal,
		ownerRecord,
		proposerKey,
		proposerKey,
		0, // option index
		0, // transaction index
		govAccount.Config.MinTransactionHoldUpTime,
		inner,
		c.programID,
	)
	if err != nil {
		return solana.Signature{}, solana.PublicKey{}, err
	}

	signOff, err := governance.NewSignOffProposalInstruction(
		p.Realm,
		gov,
		proposal,
		proposerKey,
		ownerRecord,
		c.programID,
	)
	if err != nil {
		return solana.Signature{}, solana.PublicKey{}, err
	}

	instructions := []solana.Instruction{createProposal, insertTransaction, signOff}

	sig, err := c.sendAndConfirm(ctx, instructions, proposerKey, proposer)
	if err != nil {
		return solana.Signature{}, solana.PublicKey{}, err
	}

	return sig, proposal, nil
}
