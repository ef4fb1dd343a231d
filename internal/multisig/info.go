package multisig

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"govsig-go/internal/governance"
)

// MultisigInfo is a display-oriented snapshot of a multisig.
type MultisigInfo struct {
	Name             string
	Addresses        MultisigAddresses
	Members          []solana.PublicKey
	Threshold        uint16
	TreasuryLamports uint64
	VotingBaseTime   uint32
	HoldUpTime       uint32
	ActiveProposals  uint64
}

// ProposalInfo is a display-oriented snapshot of a proposal.
type ProposalInfo struct {
	Address     solana.PublicKey
	Name        string
	Description string
	State       governance.ProposalState
	YesVotes    uint64
	NoVotes     uint64
	DraftAt     int64
}

// thresholdFromPercentage inverts the percentage stored in the governance
// config back to the member count required to approve. Mirrors the
// program's vote tipping arithmetic, which takes the ceiling.
func thresholdFromPercentage(percentage uint8, members int) uint16 {
	return uint16((uint64(percentage)*uint64(members) + 99) / 100)
}

// FetchMultisigInfo assembles a full view of a multisig from its realm
// name: realm config, member roster, approval threshold and treasury
// balance.
func (c *Client) FetchMultisigInfo(ctx context.Context, name string) (*MultisigInfo, error) {
	realmAddress, _ := governance.GetRealmPDA(name, c.programID)
	return c.FetchMultisigInfoByRealm(ctx, realmAddress)
}

// FetchMultisigInfoByRealm is FetchMultisigInfo keyed by realm address.
func (c *Client) FetchMultisigInfoByRealm(ctx context.Context, realmAddress solana.PublicKey) (*MultisigInfo, error) {
	realm, err := governance.GetRealm(ctx, c.rpc, realmAddress)
	if err != nil {
		return nil, err
	}
	if realm.Config.CouncilMint == nil {
		return nil, fmt.Errorf("realm %s has no council, not a multisig", realmAddress)
	}
	name := realm.Name

	addresses := c.Addresses(name, *realm.Config.CouncilMint)

	govAccount, err := governance.GetGovernance(ctx, c.rpc, addresses.Governance)
	if err != nil {
		return nil, err
	}

	records, err := governance.ListTokenOwnerRecords(ctx, c.rpc, realmAddress, *realm.Config.CouncilMint, c.programID)
	if err != nil {
		return nil, err
	}
	members := make([]solana.PublicKey, 0, len(records))
	for _, record := range records {
		if record.GoverningTokenDepositAmount == 0 {
			continue
		}
		members = append(members, record.GoverningTokenOwner)
	}

	balance, err := c.rpc.GetBalance(ctx, addresses.Treasury, c.commitment)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch treasury balance: %w", err)
	}

	return &MultisigInfo{
		Name:             realm.Name,
		Addresses:        addresses,
		Members:          members,
		Threshold:        thresholdFromPercentage(govAccount.Config.CouncilVoteThreshold.Value, len(members)),
		TreasuryLamports: balance.Value,
		VotingBaseTime:   govAccount.Config.VotingBaseTime,
		HoldUpTime:       govAccount.Config.MinTransactionHoldUpTime,
		ActiveProposals:  govAccount.ActiveProposalCount,
	}, nil
}

// ListProposals returns display snapshots of every proposal under the
// multisig's governance, newest first.
func (c *Client) ListProposals(ctx context.Context, governanceAddress solana.PublicKey) ([]ProposalInfo, error) {
	keyed, err := governance.ListProposals(ctx, c.rpc, governanceAddress, c.programID)
	if err != nil {
		return nil, err
	}

	infos := make([]ProposalInfo, 0, len(keyed))
	for _, kp := range keyed {
		infos = append(infos, proposalInfo(kp.Address, &kp.Proposal))
	}
	// getProgramAccounts ordering is unspecified; sort by creation time.
	for i := 1; i < len(infos); i++ {
		for j := i; j > 0 && infos[j].DraftAt > infos[j-1].DraftAt; j-- {
			infos[j], infos[j-1] = infos[j-1], infos[j]
		}
	}
	return infos, nil
}

// FetchProposal returns a display snapshot of a single proposal.
func (c *Client) FetchProposal(ctx context.Context, address solana.PublicKey) (*ProposalInfo, error) {
	proposal, err := governance.GetProposal(ctx, c.rpc, address)
	if err != nil {
		return nil, err
	}
	info := proposalInfo(address, proposal)
	return &info, nil
}

func proposalInfo(address solana.PublicKey, proposal *governance.Proposal) ProposalInfo {
	return ProposalInfo{
		Address:     address,
		Name:        proposal.Name,
		Description: proposal.DescriptionLink,
		State:       proposal.State,
		YesVotes:    proposal.YesVoteWeight(),
		NoVotes:     proposal.NoVoteWeight(),
		DraftAt:     proposal.DraftAt,
	}
}
