package multisig

import (
	"context"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/shopspring/decimal"

	"govsig-go/internal/governance"
)

const solDecimals = 9

// ParseAmount converts a human decimal amount into base units.
func ParseAmount(amount string, decimals uint8) (uint64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if d.IsNegative() {
		return 0, errors.New("amount must be positive")
	}

	shifted := d.Shift(int32(decimals))
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("amount %s has more than %d decimal places", amount, decimals)
	}
	base := shifted.BigInt()
	if !base.IsUint64() {
		return 0, fmt.Errorf("amount %s is out of range", amount)
	}
	return base.Uint64(), nil
}

// TransferParams describes a treasury payout to propose.
type TransferParams struct {
	Realm     solana.PublicKey
	Recipient solana.PublicKey

	// Amount is a human decimal string, e.g. "1.5".
	Amount string

	// Mint selects the SPL token to send; nil means native SOL.
	Mint *solana.PublicKey

	Name        string
	Description string
}

// ProposeTransfer proposes a payout from the multisig treasury. The
// transfer instruction is stored on the proposal and only runs after the
// approval threshold is met.
func (c *Client) ProposeTransfer(
	ctx context.Context,
	p TransferParams,
	proposer solana.PrivateKey,
) (solana.Signature, solana.PublicKey, error) {
	if p.Recipient.IsZero() {
		return solana.Signature{}, solana.PublicKey{}, errors.New("recipient is required")
	}

	gov, _ := governance.GetGovernancePDA(p.Realm, p.Realm, c.programID)
	treasury, _ := governance.GetNativeTreasuryPDA(gov, c.programID)

	var instructions []solana.Instruction
	if p.Mint == nil {
		lamports, err := ParseAmount(p.Amount, solDecimals)
		if err != nil {
			return solana.Signature{}, solana.PublicKey{}, err
		}
		instructions = append(instructions, system.NewTransferInstruction(
			lamports,
			treasury,
			p.Recipient,
		).Build())
	} else {
		tokenInstructions, err := c.tokenTransferInstructions(ctx, treasury, p.Recipient, *p.Mint, p.Amount)
		if err != nil {
			return solana.Signature{}, solana.PublicKey{}, err
		}
		instructions = tokenInstructions
	}

	name := p.Name
	if name == "" {
		name = fmt.Sprintf("Transfer %s to %s", p.Amount, p.Recipient.Short(4))
	}

	return c.ProposeTransaction(ctx, ProposeParams{
		Realm:           p.Realm,
		Name:            name,
		DescriptionLink: p.Description,
		Instructions:    instructions,
	}, proposer)
}

// tokenTransferInstructions builds an SPL token payout from the treasury's
// associated token account, creating the recipient's if needed. The create
// is paid by the treasury since the inner transaction has no outside payer.
func (c *Client) tokenTransferInstructions(
	ctx context.Context,
	treasury solana.PublicKey,
	recipient solana.PublicKey,
	mint solana.PublicKey,
	amount string,
) ([]solana.Instruction, error) {
	mintData, err := fetchMint(ctx, c, mint)
	if err != nil {
		return nil, err
	}

	base, err := ParseAmount(amount, mintData.Decimals)
	if err != nil {
		return nil, err
	}

	source, _, err := solana.FindAssociatedTokenAddress(treasury, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive treasury token account: %w", err)
	}
	destination, _, err := solana.FindAssociatedTokenAddress(recipient, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive recipient token account: %w", err)
	}

	var instructions []solana.Instruction

	destInfo, err := c.rpc.GetAccountInfo(ctx, destination)
	if err != nil || destInfo.Value == nil {
		instructions = append(instructions, associatedtokenaccount.NewCreateInstruction(
			treasury,
			recipient,
			mint,
		).Build())
	}

	instructions = append(instructions, token.NewTransferCheckedInstruction(
		base,
		mintData.Decimals,
		source,
		mint,
		destination,
		treasury,
		nil,
	).Build())

	return instructions, nil
}

func fetchMint(ctx context.Context, c *Client, mint solana.PublicKey) (*token.Mint, error) {
	info, err := c.rpc.GetAccountInfo(ctx, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch mint %s: %w", mint, err)
	}
	if info.Value == nil {
		return nil, fmt.Errorf("mint %s does not exist", mint)
	}

	var m token.Mint
	if err := bin.NewBinDecoder(info.Value.Data.GetBinary()).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode mint %s: %w", mint, err)
	}
	return &m, nil
}
