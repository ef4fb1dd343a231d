package governance

import "github.com/gagliardetto/solana-go"

// Deployed SPL Governance program (mainnet + devnet share the address).
var DefaultProgramID = solana.MustPublicKeyFromBase58("GovER5Lthms3bLBqWub97yVrMmEogzX7xNjdXpPPCVZw")

// Seeds used by the on-chain program for PDA derivation.
var (
	seedGovernance        = []byte("governance")
	seedAccountGovernance = []byte("account-governance")
	seedRealmConfig       = []byte("realm-config")
	seedNativeTreasury    = []byte("native-treasury")
)
