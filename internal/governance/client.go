package governance

import (
	"context"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

func fetchAccountData(ctx context.Context, client *rpc.Client, addr solana.PublicKey) ([]byte, error) {
	accountInfo, err := client.GetAccountInfo(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account %s: %w", addr, err)
	}
	if accountInfo.Value == nil {
		return nil, fmt.Errorf("account %s does not exist", addr)
	}

	data := accountInfo.Value.Data.GetBinary()
	if len(data) == 0 {
		return nil, fmt.Errorf("account %s has no data", addr)
	}
	return data, nil
}

// GetRealm fetches and decodes a realm account.
func GetRealm(ctx context.Context, client *rpc.Client, addr solana.PublicKey) (*Realm, error) {
	data, err := fetchAccountData(ctx, client, addr)
	if err != nil {
		return nil, err
	}

	var realm Realm
	if err := realm.UnmarshalWithDecoder(bin.NewBorshDecoder(data)); err != nil {
		return nil, fmt.Errorf("failed to decode realm: %w", err)
	}
	return &realm, nil
}

// GetTokenOwnerRecord fetches and decodes a token owner record.
func GetTokenOwnerRecord(ctx context.Context, client *rpc.Client, addr solana.PublicKey) (*TokenOwnerRecord, error) {
	data, err := fetchAccountData(ctx, client, addr)
	if err != nil {
		return nil, err
	}

	var record TokenOwnerRecord
	if err := record.UnmarshalWithDecoder(bin.NewBorshDecoder(data)); err != nil {
		return nil, fmt.Errorf("failed to decode token owner record: %w", err)
	}
	return &record, nil
}

// GetGovernance fetches and decodes a governance account.
func GetGovernance(ctx context.Context, client *rpc.Client, addr solana.PublicKey) (*Governance, error) {
	data, err := fetchAccountData(ctx, client, addr)
	if err != nil {
		return nil, err
	}

	var governance Governance
	if err := governance.UnmarshalWithDecoder(bin.NewBorshDecoder(data)); err != nil {
		return nil, fmt.Errorf("failed to decode governance: %w", err)
	}
	return &governance, nil
}

// GetProposal fetches and decodes a proposal account.
func GetProposal(ctx context.Context, client *rpc.Client, addr solana.PublicKey) (*Proposal, error) {
	data, err := fetchAccountData(ctx, client, addr)
	if err != nil {
		return nil, err
	}

	var proposal Proposal
	if err := proposal.UnmarshalWithDecoder(bin.NewBorshDecoder(data)); err != nil {
		return nil, fmt.Errorf("failed to decode proposal: %w", err)
	}
	return &proposal, nil
}

// GetProposalTransaction fetches and decodes a proposal transaction account.
func GetProposalTransaction(ctx context.Context, client *rpc.Client, addr solana.PublicKey) (*ProposalTransaction, error) {
	data, err := fetchAccountData(ctx, client, addr)
	if err != nil {
		return nil, err
	}

	var tx ProposalTransaction
	if err := tx.UnmarshalWithDecoder(bin.NewBorshDecoder(data)); err != nil {
		return nil, fmt.Errorf("failed to decode proposal transaction: %w", err)
	}
	return &tx, nil
}

// GetVoteRecord fetches and decodes a vote record.
func GetVoteRecord(ctx context.Context, client *rpc.Client, addr solana.PublicKey) (*VoteRecord, error) {
	data, err := fetchAccountData(ctx, client, addr)
	if err != nil {
		return nil, err
	}

	var record VoteRecord
	if err := record.UnmarshalWithDecoder(bin.NewBorshDecoder(data)); err != nil {
		return nil, fmt.Errorf("failed to decode vote record: %w", err)
	}
	return &record, nil
}

// KeyedProposal pairs a proposal with its address.
type KeyedProposal struct {
	Address  solana.PublicKey
	Proposal Proposal
}

// ListProposals returns all proposals under a governance via a
// getProgramAccounts scan filtered on account type and governance key.
func ListProposals(
	ctx context.Context,
	client *rpc.Client,
	governance solana.PublicKey,
	programID solana.PublicKey,
) ([]KeyedProposal, error) {
	result, err := client.GetProgramAccountsWithOpts(ctx, programID, &rpc.GetProgramAccountsOpts{
		Filters: []rpc.RPCFilter{
			{
				Memcmp: &rpc.RPCFilterMemcmp{
					Offset: 0,
					Bytes:  solana.Base58([]byte{byte(AccountTypeProposalV2)}),
				},
			},
			{
				Memcmp: &rpc.RPCFilterMemcmp{
					Offset: 1,
					Bytes:  solana.Base58(governance.Bytes()),
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}

	proposals := make([]KeyedProposal, 0, len(result))
	for _, keyed := range result {
		var proposal Proposal
		if err := proposal.UnmarshalWithDecoder(bin.NewBorshDecoder(keyed.Account.Data.GetBinary())); err != nil {
			// Skip accounts with layouts from newer program versions.
			continue
		}
		proposals = append(proposals, KeyedProposal{
			Address:  keyed.Pubkey,
			Proposal: proposal,
		})
	}
	return proposals, nil
}

// ListTokenOwnerRecords returns all token owner records for a realm and
// governing token mint. The mint sits at offset 33, right after the
// account type byte and the realm key.
func ListTokenOwnerRecords(
	ctx context.Context,
	client *rpc.Client,
	realm solana.PublicKey,
	governingTokenMint solana.PublicKey,
	programID solana.PublicKey,
) ([]TokenOwnerRecord, error) {
	result, err := client.GetProgramAccountsWithOpts(ctx, programID, &rpc.GetProgramAccountsOpts{
		Filters: []rpc.RPCFilter{
			{
				Memcmp: &rpc.RPCFilterMemcmp{
					Offset: 0,
					Bytes:  solana.Base58([]byte{byte(AccountTypeTokenOwnerRecordV2)}),
				},
			},
			{
				Memcmp: &rpc.RPCFilterMemcmp{
					Offset: 1,
					Bytes:  solana.Base58(realm.Bytes()),
				},
			},
			{
				Memcmp: &rpc.RPCFilterMemcmp{
					Offset: 33,
					Bytes:  solana.Base58(governingTokenMint.Bytes()),
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list token owner records: %w", err)
	}

	records := make([]TokenOwnerRecord, 0, len(result))
	for _, keyed := range result {
		var record TokenOwnerRecord
		if err := record.UnmarshalWithDecoder(bin.NewBorshDecoder(keyed.Account.Data.GetBinary())); err != nil {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// ListVoteRecords returns all vote records for a proposal.
func ListVoteRecords(
	ctx context.Context,
	client *rpc.Client,
	proposal solana.PublicKey,
	programID solana.PublicKey,
) ([]VoteRecord, error) {
	result, err := client.GetProgramAccountsWithOpts(ctx, programID, &rpc.GetProgramAccountsOpts{
		Filters: []rpc.RPCFilter{
			{
				Memcmp: &rpc.RPCFilterMemcmp{
					Offset: 0,
					Bytes:  solana.Base58([]byte{byte(AccountTypeVoteRecordV2)}),
				},
			},
			{
				Memcmp: &rpc.RPCFilterMemcmp{
					Offset: 1,
					Bytes:  solana.Base58(proposal.Bytes()),
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list vote records: %w", err)
	}

	records := make([]VoteRecord, 0, len(result))
	for _, keyed := range result {
		var record VoteRecord
		if err := record.UnmarshalWithDecoder(bin.NewBorshDecoder(keyed.Account.Data.GetBinary())); err != nil {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}
