package governance

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

func GetRealmPDA(name string, programID solana.PublicKey) (solana.PublicKey, uint8) {
	seeds := [][]byte{
		seedGovernance,
		[]byte(name),
	}

	pda, bump, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		panic(fmt.Sprintf("Failed to find realm PDA: %v", err))
	}

	return pda, bump
}

func GetRealmConfigPDA(realm solana.PublicKey, programID solana.PublicKey) (solana.PublicKey, uint8) {
	seeds := [][]byte{
		seedRealmConfig,
		realm.Bytes(),
	}

	pda, bump, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		panic(fmt.Sprintf("Failed to find realm config PDA: %v", err))
	}

	return pda, bump
}

// GetGoverningTokenHoldingPDA derives the realm's deposit vault for a
// governing token mint (community or council).
func GetGoverningTokenHoldingPDA(
	realm solana.PublicKey,
	governingTokenMint solana.PublicKey,
	programID solana.PublicKey,
) (solana.PublicKey, uint8) {
	seeds := [][]byte{
		seedGovernance,
		realm.Bytes(),
		governingTokenMint.Bytes(),
	}

	pda, bump, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		panic(fmt.Sprintf("Failed to find token holding PDA: %v", err))
	}

	return pda, bump
}

func GetTokenOwnerRecordPDA(
	realm solana.PublicKey,
	governingTokenMint solana.PublicKey,
	governingTokenOwner solana.PublicKey,
	programID solana.PublicKey,
) (solana.PublicKey, uint8) {
	seeds := [][]byte{
		seedGovernance,
		realm.Bytes(),
		governingTokenMint.Bytes(),
		governingTokenOwner.Bytes(),
	}

	pda, bump, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		panic(fmt.Sprintf("Failed to find token owner record PDA: %v", err))
	}

	return pda, bump
}

// GetGovernancePDA derives the governance account for a governed account
// (the multisig uses the realm itself as the governed account).
func GetGovernancePDA(
	realm solana.PublicKey,
	governedAccount solana.PublicKey,
	programID solana.PublicKey,
) (solana.PublicKey, uint8) {
	seeds := [][]byte{
		seedAccountGovernance,
		realm.Bytes(),
		governedAccount.Bytes(),
	}

	pda, bump, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		panic(fmt.Sprintf("Failed to find governance PDA: %v", err))
	}

	return pda, bump
}

func GetNativeTreasuryPDA(governance solana.PublicKey, programID solana.PublicKey) (solana.PublicKey, uint8) {
	seeds := [][]byte{
		seedNativeTreasury,
		governance.Bytes(),
	}

	pda, bump, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		panic(fmt.Sprintf("Failed to find native treasury PDA: %v", err))
	}

	return pda, bump
}

// GetProposalPDA derives a proposal address. proposalSeed is a fresh pubkey
// chosen by the client so one owner can keep several proposals in flight.
func GetProposalPDA(
	governance solana.PublicKey,
	governingTokenMint solana.PublicKey,
	proposalSeed solana.PublicKey,
	programID solana.PublicKey,
) (solana.PublicKey, uint8) {
	seeds := [][]byte{
		seedGovernance,
		governance.Bytes(),
		governingTokenMint.Bytes(),
		proposalSeed.Bytes(),
	}

	pda, bump, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		panic(fmt.Sprintf("Failed to find proposal PDA: %v", err))
	}

	return pda, bump
}

func GetSignatoryRecordPDA(
	proposal solana.PublicKey,
	signatory solana.PublicKey,
	programID solana.PublicKey,
) (solana.PublicKey, uint8) {
	seeds := [][]byte{
		seedGovernance,
		proposal.Bytes(),
		signatory.Bytes(),
	}

	pda, bump, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		panic(fmt.Sprintf("Failed to find signatory record PDA: %v", err))
	}

	return pda, bump
}

func GetVoteRecordPDA(
	proposal solana.PublicKey,
	tokenOwnerRecord solana.PublicKey,
	programID solana.PublicKey,
) (solana.PublicKey, uint8) {
	seeds := [][]byte{
		seedGovernance,
		proposal.Bytes(),
		tokenOwnerRecord.Bytes(),
	}

	pda, bump, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		panic(fmt.Sprintf("Failed to find vote record PDA: %v", err))
	}

	return pda, bump
}

func GetProposalTransactionPDA(
	proposal solana.PublicKey,
	optionIndex uint8,
	transactionIndex uint16,
	programID solana.PublicKey,
) (solana.PublicKey, uint8) {
	seeds := [][]byte{
		seedGovernance,
		proposal.Bytes(),
		{optionIndex},
		uint16ToBytes(transactionIndex),
	}

	pda, bump, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		panic(fmt.Sprintf("Failed to find proposal transaction PDA: %v", err))
	}

	return pda, bump
}

func uint16ToBytes(value uint16) []byte {
	bytes := make([]byte, 2)
	binary.LittleEndian.PutUint16(bytes, value)
	return bytes
}
