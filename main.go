package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"govsig-go/internal/config"
	"govsig-go/internal/history"
	"govsig-go/internal/multisig"
	"govsig-go/internal/wallet"
)

const usage = `govsig - multisig wallets on the governance program

Usage: govsig [-config path] <command> [flags]

Commands:
  create            create a new multisig
  show              show a multisig's members, threshold and treasury
  deposit           deposit governing tokens to activate voting power
  fund              send SOL into the multisig treasury
  propose-transfer  propose a SOL or token payout from the treasury
  vote              vote on a proposal (approve, reject, abstain)
  relinquish        withdraw your vote from an open proposal
  execute           execute an approved proposal
  finalize          finalize an expired proposal
  cancel            cancel your own proposal
  proposals         list proposals for a multisig
  history           show locally recorded submissions
  wallet            manage the encrypted keystore (new, store, list, delete)
`

func main() {
	log.SetFlags(0)

	configPath := flag.String("config", "", "path to config file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app := &app{cfg: cfg}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	command := flag.Arg(0)
	args := flag.Args()[1:]

	if err := app.run(ctx, command, args); err != nil {
		log.Fatalf("%s: %v", command, err)
	}
}

type app struct {
	cfg config.Config
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "create":
		return a.create(ctx, args)
	case "show":
		return a.show(ctx, args)
	case "deposit":
		return a.deposit(ctx, args)
	case "fund":
		return a.fund(ctx, args)
	case "propose-transfer":
		return a.proposeTransfer(ctx, args)
	case "vote":
		return a.vote(ctx, args)
	case "relinquish":
		return a.relinquish(ctx, args)
	case "execute":
		return a.execute(ctx, args)
	case "finalize":
		return a.finalize(ctx, args)
	case "cancel":
		return a.cancel(ctx, args)
	case "proposals":
		return a.proposals(ctx, args)
	case "history":
		return a.history(args)
	case "wallet":
		return a.wallet(args)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) client() *multisig.Client {
	return multisig.NewClient(
		a.cfg.RPCURL,
		a.cfg.WSURL,
		multisig.WithProgramID(a.cfg.Program()),
		multisig.WithCommitment(rpc.CommitmentType(a.cfg.Commitment)),
	)
}

func (a *app) signer(keyFlag string) (solana.PrivateKey, error) {
	source := keyFlag
	if source == "" {
		source = a.cfg.KeypairPath
	}
	return wallet.Load(source)
}

func (a *app) log(signature solana.Signature, multisigName, proposal, kind, note string) {
	db, err := history.Open(a.cfg.HistoryPath)
	if err != nil {
		log.Printf("warning: could not open history db: %v", err)
		return
	}
	defer db.Close()
	if err := db.Record(signature.String(), multisigName, proposal, kind, note); err != nil {
		log.Printf("warning: could not record history: %v", err)
	}
}

func (a *app) create(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	name := fs.String("name", "", "multisig name (realm name, must be unique)")
	members := fs.String("members", "", "comma-separated member public keys")
	threshold := fs.Uint("threshold", 0, "approvals required to pass a proposal")
	votingTime := fs.Duration("voting-time", 0, "how long proposals stay open (default 72h)")
	keyFlag := fs.String("key", "", "payer key (file, base58 or mnemonic)")
	fs.Parse(args)

	payer, err := a.signer(*keyFlag)
	if err != nil {
		return err
	}

	var memberKeys []solana.PublicKey
	for _, raw := range strings.Split(*members, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		key, err := solana.PublicKeyFromBase58(raw)
		if err != nil {
			return fmt.Errorf("invalid member %q: %w", raw, err)
		}
		memberKeys = append(memberKeys, key)
	}

	params := multisig.CreateParams{
		Name:           *name,
		Members:        memberKeys,
		Threshold:      uint16(*threshold),
		VotingBaseTime: uint32(votingTime.Seconds()),
	}

	sig, addresses, err := a.client().CreateMultisig(ctx, params, payer)
	if err != nil {
		return err
	}

	fmt.Printf("created multisig %q\n", *name)
	fmt.Printf("  realm:      %s\n", addresses.Realm)
	fmt.Printf("  governance: %s\n", addresses.Governance)
	fmt.Printf("  treasury:   %s\n", addresses.Treasury)
	fmt.Printf("  signature:  %s\n", sig)
	a.log(sig, *name, "", history.KindCreate, fmt.Sprintf("%d members, threshold %d", len(memberKeys), *threshold))
	return nil
}

func (a *app) show(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	name := fs.String("name", "", "multisig name")
	fs.Parse(args)

	info, err := a.client().FetchMultisigInfo(ctx, *name)
	if err != nil {
		return err
	}

	fmt.Printf("multisig %q\n", info.Name)
	fmt.Printf("  realm:      %s\n", info.Addresses.Realm)
	fmt.Printf("  governance: %s\n", info.Addresses.Governance)
	fmt.Printf("  treasury:   %s (%s SOL)\n", info.Addresses.Treasury, lamportsToSol(info.TreasuryLamports))
	fmt.Printf("  threshold:  %d of %d\n", info.Threshold, len(info.Members))
	fmt.Printf("  voting:     %s open, %s hold-up\n",
		time.Duration(info.VotingBaseTime)*time.Second,
		time.Duration(info.HoldUpTime)*time.Second)
	fmt.Printf("  proposals:  %d active\n", info.ActiveProposals)
	fmt.Println("  members:")
	for _, member := range info.Members {
		fmt.Printf("    %s\n", member)
	}
	return nil
}

func (a *app) deposit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("deposit", flag.ExitOnError)
	realm := fs.String("realm", "", "realm address")
	mint := fs.String("mint", "", "governing token mint")
	amount := fs.Uint64("amount", 1, "token amount in base units")
	keyFlag := fs.String("key", "", "owner key")
	fs.Parse(args)

	owner, err := a.signer(*keyFlag)
	if err != nil {
		return err
	}
	realmKey, err := solana.PublicKeyFromBase58(*realm)
	if err != nil {
		return fmt.Errorf("invalid realm: %w", err)
	}
	mintKey, err := solana.PublicKeyFromBase58(*mint)
	if err != nil {
		return fmt.Errorf("invalid mint: %w", err)
	}

	sig, err := a.client().Deposit(ctx, realmKey, mintKey, *amount, owner)
	if err != nil {
		return err
	}
	fmt.Printf("deposited: %s\n", sig)
	a.log(sig, *realm, "", history.KindDeposit, "")
	return nil
}

func (a *app) fund(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fund", flag.ExitOnError)
	treasury := fs.String("treasury", "", "treasury address")
	amount := fs.String("amount", "", "SOL amount, e.g. 1.5")
	keyFlag := fs.String("key", "", "funder key")
	fs.Parse(args)

	funder, err := a.signer(*keyFlag)
	if err != nil {
		return err
	}
	treasuryKey, err := solana.PublicKeyFromBase58(*treasury)
	if err != nil {
		return fmt.Errorf("invalid treasury: %w", err)
	}

	sig, err := a.client().FundTreasury(ctx, treasuryKey, *amount, funder)
	if err != nil {
		return err
	}
	fmt.Printf("funded: %s\n", sig)
	a.log(sig, *treasury, "", history.KindFund, *amount+" SOL")
	return nil
}

func (a *app) proposeTransfer(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("propose-transfer", flag.ExitOnError)
	realm := fs.String("realm", "", "realm address")
	recipient := fs.String("recipient", "", "recipient address")
	amount := fs.String("amount", "", "amount, e.g. 1.5")
	mint := fs.String("mint", "", "token mint (empty for SOL)")
	name := fs.String("name", "", "proposal name")
	description := fs.String("description", "", "proposal description link")
	keyFlag := fs.String("key", "", "proposer key")
	fs.Parse(args)

	proposer, err := a.signer(*keyFlag)
	if err != nil {
		return err
	}
	realmKey, err := solana.PublicKeyFromBase58(*realm)
	if err != nil {
		return fmt.Errorf("invalid realm: %w", err)
	}
	recipientKey, err := solana.PublicKeyFromBase58(*recipient)
	if err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}

	params := multisig.TransferParams{
		Realm:       realmKey,
		Recipient:   recipientKey,
		Amount:      *amount,
		Name:        *name,
		Description: *description,
	}
	if *mint != "" {
		mintKey, err := solana.PublicKeyFromBase58(*mint)
		if err != nil {
			return fmt.Errorf("invalid mint: %w", err)
		}
		params.Mint = &mintKey
	}

	sig, proposal, err := a.client().ProposeTransfer(ctx, params, proposer)
	if err != nil {
		return err
	}
	fmt.Printf("proposal: %s\n", proposal)
	fmt.Printf("signature: %s\n", sig)
	a.log(sig, *realm, proposal.String(), history.KindPropose, params.Name)
	return nil
}

func (a *app) vote(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("vote", flag.ExitOnError)
	proposal := fs.String("proposal", "", "proposal address")
	choice := fs.String("choice", "approve", "approve, reject or abstain")
	keyFlag := fs.String("key", "", "voter key")
	fs.Parse(args)

	voter, err := a.signer(*keyFlag)
	if err != nil {
		return err
	}
	proposalKey, err := solana.PublicKeyFromBase58(*proposal)
	if err != nil {
		return fmt.Errorf("invalid proposal: %w", err)
	}

	client := a.client()
	var sig solana.Signature
	switch *choice {
	case "approve":
		sig, err = client.Approve(ctx, proposalKey, voter)
	case "reject":
		sig, err = client.Reject(ctx, proposalKey, voter)
	case "abstain":
		sig, err = client.Abstain(ctx, proposalKey, voter)
	default:
		return fmt.Errorf("unknown choice %q", *choice)
	}
	if err != nil {
		return err
	}
	fmt.Printf("voted %s: %s\n", *choice, sig)
	a.log(sig, "", *proposal, history.KindVote, *choice)
	return nil
}

func (a *app) relinquish(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("relinquish", flag.ExitOnError)
	proposal := fs.String("proposal", "", "proposal address")
	keyFlag := fs.String("key", "", "voter key")
	fs.Parse(args)

	voter, err := a.signer(*keyFlag)
	if err != nil {
		return err
	}
	proposalKey, err := solana.PublicKeyFromBase58(*proposal)
	if err != nil {
		return fmt.Errorf("invalid proposal: %w", err)
	}

	sig, err := a.client().Relinquish(ctx, proposalKey, voter)
	if err != nil {
		return err
	}
	fmt.Printf("relinquished: %s\n", sig)
	a.log(sig, "", *proposal, history.KindRelinquish, "")
	return nil
}

func (a *app) execute(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("execute", flag.ExitOnError)
	proposal := fs.String("proposal", "", "proposal address")
	keyFlag := fs.String("key", "", "payer key")
	fs.Parse(args)

	payer, err := a.signer(*keyFlag)
	if err != nil {
		return err
	}
	proposalKey, err := solana.PublicKeyFromBase58(*proposal)
	if err != nil {
		return fmt.Errorf("invalid proposal: %w", err)
	}

	sig, err := a.client().Execute(ctx, proposalKey, payer)
	if err != nil {
		return err
	}
	fmt.Printf("executed: %s\n", sig)
	a.log(sig, "", *proposal, history.KindExecute, "")
	return nil
}

func (a *app) finalize(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("finalize", flag.ExitOnError)
	proposal := fs.String("proposal", "", "proposal address")
	keyFlag := fs.String("key", "", "payer key")
	fs.Parse(args)

	payer, err := a.signer(*keyFlag)
	if err != nil {
		return err
	}
	proposalKey, err := solana.PublicKeyFromBase58(*proposal)
	if err != nil {
		return fmt.Errorf("invalid proposal: %w", err)
	}

	sig, err := a.client().Finalize(ctx, proposalKey, payer)
	if err != nil {
		return err
	}
	fmt.Printf("finalized: %s\n", sig)
	a.log(sig, "", *proposal, history.KindFinalize, "")
	return nil
}

func (a *app) cancel(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("cancel", flag.ExitOnError)
	proposal := fs.String("proposal", "", "proposal address")
	keyFlag := fs.String("key", "", "proposal owner key")
	fs.Parse(args)

	owner, err := a.signer(*keyFlag)
	if err != nil {
		return err
	}
	proposalKey, err := solana.PublicKeyFromBase58(*proposal)
	if err != nil {
		return fmt.Errorf("invalid proposal: %w", err)
	}

	sig, err := a.client().Cancel(ctx, proposalKey, owner)
	if err != nil {
		return err
	}
	fmt.Printf("cancelled: %s\n", sig)
	a.log(sig, "", *proposal, history.KindCancel, "")
	return nil
}

func (a *app) proposals(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("proposals", flag.ExitOnError)
	name := fs.String("name", "", "multisig name")
	fs.Parse(args)

	client := a.client()
	info, err := client.FetchMultisigInfo(ctx, *name)
	if err != nil {
		return err
	}

	proposals, err := client.ListProposals(ctx, info.Addresses.Governance)
	if err != nil {
		return err
	}
	if len(proposals) == 0 {
		fmt.Println("no proposals")
		return nil
	}

	for _, p := range proposals {
		fmt.Printf("%s  %-10s  yes=%d no=%d  %s\n", p.Address, p.State, p.YesVotes, p.NoVotes, p.Name)
	}
	return nil
}

func (a *app) history(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	multisigFilter := fs.String("multisig", "", "filter by multisig")
	limit := fs.Int("limit", 20, "max entries")
	fs.Parse(args)

	db, err := history.Open(a.cfg.HistoryPath)
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := db.List(*multisigFilter, *limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no history")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%s  %-10s  %s  %s\n", e.CreatedAt.Local().Format(time.DateTime), e.Kind, e.Signature, e.Note)
	}
	return nil
}

func (a *app) wallet(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: wallet <new|store|list|delete>")
	}

	ks, err := wallet.OpenKeystore(a.cfg.KeystorePath)
	if err != nil {
		return err
	}

	switch args[0] {
	case "new":
		fs := flag.NewFlagSet("wallet new", flag.ExitOnError)
		name := fs.String("name", "", "wallet name")
		password := fs.String("password", "", "encryption password")
		fs.Parse(args[1:])

		mnemonic, key, err := wallet.NewMnemonic()
		if err != nil {
			return err
		}
		if err := ks.Store(*name, key, *password); err != nil {
			return err
		}
		fmt.Printf("address:  %s\n", key.PublicKey())
		fmt.Printf("mnemonic: %s\n", mnemonic)
		fmt.Println("write the mnemonic down; it is not stored anywhere")
		return nil
	case "store":
		fs := flag.NewFlagSet("wallet store", flag.ExitOnError)
		name := fs.String("name", "", "wallet name")
		keyFlag := fs.String("key", "", "key to store (file, base58 or mnemonic)")
		password := fs.String("password", "", "encryption password")
		fs.Parse(args[1:])

		key, err := wallet.Load(*keyFlag)
		if err != nil {
			return err
		}
		if err := ks.Store(*name, key, *password); err != nil {
			return err
		}
		fmt.Printf("stored %q (%s)\n", *name, key.PublicKey())
		return nil
	case "list":
		names := ks.Names()
		if len(names) == 0 {
			fmt.Println("keystore is empty")
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	case "delete":
		fs := flag.NewFlagSet("wallet delete", flag.ExitOnError)
		name := fs.String("name", "", "wallet name")
		fs.Parse(args[1:])
		if err := ks.Delete(*name); err != nil {
			return err
		}
		fmt.Printf("deleted %q\n", *name)
		return nil
	default:
		return fmt.Errorf("unknown wallet command %q", args[0])
	}
}

func lamportsToSol(lamports uint64) string {
	sol := float64(lamports) / float64(solana.LAMPORTS_PER_SOL)
	return fmt.Sprintf("%.9g", sol)
}
