package multisig

import "github.com/gagliardetto/solana-go"

// A multisig is a realm whose council mint is a non-transferable membership
// token, one token per member, governed by a single governance account whose
// council vote threshold encodes the m-of-n approval rule. The governance's
// native treasury PDA holds the funds.

// MaxMembers bounds the creation transaction size.
const MaxMembers = 10

type CreateParams struct {
	Name      string
	Members   []solana.PublicKey
	Threshold uint16

	// VotingBaseTime is how long a proposal stays open, in seconds.
	// Zero means the default of 3 days.
	VotingBaseTime uint32

	// HoldUpTime delays execution after a proposal succeeds, in seconds.
	HoldUpTime uint32
}

// DefaultVotingBaseTime is applied when CreateParams.VotingBaseTime is zero.
const DefaultVotingBaseTime uint32 = 3 * 24 * 60 * 60

// MultisigAddresses collects every derived account of a multisig.
type MultisigAddresses struct {
	Realm       solana.PublicKey
	CouncilMint solana.PublicKey
	Governance  solana.PublicKey
	Treasury    solana.PublicKey
}
