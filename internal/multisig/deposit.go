package multisig

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"

	"govsig-go/internal/governance"
)

// Deposit moves governing tokens from the owner's associated token account
// into the realm, activating (or increasing) their voting power. The token
// owner record is created on first deposit.
func (c *Client) Deposit(
	ctx context.Context,
	realm solana.PublicKey,
	governingTokenMint solana.PublicKey,
	amount uint64,
	owner solana.PrivateKey,
) (solana.Signature, error) {
	if amount == 0 {
		return solana.Signature{}, errors.New("amount must be positive")
	}

	ownerKey := owner.PublicKey()
	source, _, err := solana.FindAssociatedTokenAddress(ownerKey, governingTokenMint)
	if err != nil {
		return solana.Signature{}, err
	}

	deposit, err := governance.NewDepositGoverningTokensInstruction(
		realm,
		governingTokenMint,
		source,
		ownerKey,
		true,
		ownerKey,
		ownerKey,
		amount,
		c.programID,
	)
	if err != nil {
		return solana.Signature{}, err
	}

	return c.sendAndConfirm(ctx, []solana.Instruction{deposit}, ownerKey, owner)
}

// Withdraw releases all of the owner's deposited governing tokens back to
// their associated token account. The program rejects the withdrawal while
// votes are outstanding, and membership tokens cannot be withdrawn at all;
// both surface as transaction errors.
func (c *Client) Withdraw(
	ctx context.Context,
	realm solana.PublicKey,
	governingTokenMint solana.PublicKey,
	owner solana.PrivateKey,
) (solana.Signature, error) {
	ownerKey := owner.PublicKey()
	destination, _, err := solana.FindAssociatedTokenAddress(ownerKey, governingTokenMint)
	if err != nil {
		return solana.Signature{}, err
	}

	withdraw, err := governance.NewWithdrawGoverningTokensInstruction(
		realm,
		governingTokenMint,
		destination,
		ownerKey,
		c.programID,
	)
	if err != nil {
		return solana.Signature{}, err
	}

	return c.sendAndConfirm(ctx, []solana.Instruction{withdraw}, ownerKey, owner)
}

// FundTreasury sends SOL from the funder's wallet into the multisig
// treasury. Anyone can fund; no proposal is needed.
func (c *Client) FundTreasury(
	ctx context.Context,
	treasury solana.PublicKey,
	amount string,
	funder solana.PrivateKey,
) (solana.Signature, error) {
	lamports, err := ParseAmount(amount, solDecimals)
	if err != nil {
		return solana.Signature{}, err
	}
	if lamports == 0 {
		return solana.Signature{}, errors.New("amount must be positive")
	}

	transfer := system.NewTransferInstruction(lamports, funder.PublicKey(), treasury).Build()
	return c.sendAndConfirm(ctx, []solana.Instruction{transfer}, funder.PublicKey(), funder)
}
