package multisig

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		amount   string
		decimals uint8
		want     uint64
		wantErr  string
	}{
		{"1", 9, 1_000_000_000, ""},
		{"1.5", 9, 1_500_000_000, ""},
		{"0.000000001", 9, 1, ""},
		{"2500", 6, 2_500_000_000, ""},
		{"0", 9, 0, ""},
		{"1.5", 0, 0, "decimal places"},
		{"0.0000000001", 9, 0, "decimal places"},
		{"-3", 9, 0, "positive"},
		{"abc", 9, 0, "invalid amount"},
		{"", 9, 0, "invalid amount"},
		{"99999999999999999999", 9, 0, "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			got, err := ParseAmount(tt.amount, tt.decimals)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestProposeTransferRequiresRecipient(t *testing.T) {
	client := NewClient("http://localhost:8899", "ws://localhost:8900")

	_, _, err := client.ProposeTransfer(context.Background(), TransferParams{
		Realm:  solana.NewWallet().PublicKey(),
		Amount: "1",
	}, solana.NewWallet().PrivateKey)
	require.ErrorContains(t, err, "recipient")
}

func TestProposeTransferRejectsBadAmount(t *testing.T) {
	client := NewClient("http://localhost:8899", "ws://localhost:8900")

	_, _, err := client.ProposeTransfer(context.Background(), TransferParams{
		Realm:     solana.NewWallet().PublicKey(),
		Recipient: solana.NewWallet().PublicKey(),
		Amount:    "1.0000000001",
	}, solana.NewWallet().PrivateKey)
	require.ErrorContains(t, err, "decimal places")
}

func TestProposeTransactionValidation(t *testing.T) {
	client := NewClient("http://localhost:8899", "ws://localhost:8900")
	proposer := solana.NewWallet().PrivateKey

	_, _, err := client.ProposeTransaction(context.Background(), ProposeParams{
		Realm: solana.NewWallet().PublicKey(),
	}, proposer)
	require.ErrorContains(t, err, "name")

	_, _, err = client.ProposeTransaction(context.Background(), ProposeParams{
		Realm: solana.NewWallet().PublicKey(),
		Name:  "Pay invoice",
	}, proposer)
	require.ErrorContains(t, err, "instruction")
}
