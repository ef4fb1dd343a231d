package multisig

import (
	"context"
	"fmt"
	"log"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	confirm "github.com/gagliardetto/solana-go/rpc/sendAndConfirmTransaction"
	"github.com/gagliardetto/solana-go/rpc/ws"

	"govsig-go/internal/governance"
)

// Client is the high-level entrypoint. It wraps an RPC client and composes
// governance instructions into multisig operations; all state transitions are
// enforced by the on-chain program.
type Client struct {
	rpc        *rpc.Client
	wsURL      string
	programID  solana.PublicKey
	commitment rpc.CommitmentType
	logger     *log.Logger
}

type Option func(*Client)

func WithProgramID(programID solana.PublicKey) Option {
	return func(c *Client) { c.programID = programID }
}

func WithCommitment(commitment rpc.CommitmentType) Option {
	return func(c *Client) { c.commitment = commitment }
}

func WithLogger(logger *log.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func NewClient(rpcURL, wsURL string, opts ...Option) *Client {
	c := &Client{
		rpc:        rpc.New(rpcURL),
		wsURL:      wsURL,
		programID:  governance.DefaultProgramID,
		commitment: rpc.CommitmentConfirmed,
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RPC exposes the underlying RPC client for callers that need raw queries.
func (c *Client) RPC() *rpc.Client { return c.rpc }

// ProgramID returns the governance program this client targets.
func (c *Client) ProgramID() solana.PublicKey { return c.programID }

// Addresses derives every account of the multisig identified by its realm
// name and council mint.
func (c *Client) Addresses(name string, councilMint solana.PublicKey) MultisigAddresses {
	realm, _ := governance.GetRealmPDA(name, c.programID)
	gov, _ := governance.GetGovernancePDA(realm, realm, c.programID)
	treasury, _ := governance.GetNativeTreasuryPDA(gov, c.programID)
	return MultisigAddresses{
		Realm:       realm,
		CouncilMint: councilMint,
		Governance:  gov,
		Treasury:    treasury,
	}
}

// sendAndConfirm signs and submits a transaction, waiting for confirmation
// over the websocket subscription.
func (c *Client) sendAndConfirm(
	ctx context.Context,
	instructions []solana.Instruction,
	payer solana.PublicKey,
	signers ...solana.PrivateKey,
) (solana.Signature, error) {
	hash, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to get latest blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(
		instructions,
		hash.Value.Blockhash,
		solana.TransactionPayer(payer),
	)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to create transaction: %w", err)
	}

	_, err = tx.Sign(
		func(key solana.PublicKey) *solana.PrivateKey {
			for i := range signers {
				if key.Equals(signers[i].PublicKey()) {
					return &signers[i]
				}
			}
			return nil
		},
	)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	wsClient, err := ws.Connect(ctx, c.wsURL)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to connect websocket: %w", err)
	}
	defer wsClient.Close()

	sig, err := confirm.SendAndConfirmTransaction(ctx, c.rpc, wsClient, tx)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
	}

	c.logger.Printf("confirmed %s", sig)
	return sig, nil
}
