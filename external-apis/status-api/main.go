// Read-only JSON API exposing multisig state for dashboards and bots.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gorilla/mux"

	"govsig-go/internal/config"
	"govsig-go/internal/multisig"
)

type server struct {
	client *multisig.Client
}

type multisigResponse struct {
	Name             string   `json:"name"`
	Realm            string   `json:"realm"`
	Governance       string   `json:"governance"`
	Treasury         string   `json:"treasury"`
	TreasuryLamports uint64   `json:"treasuryLamports"`
	Members          []string `json:"members"`
	Threshold        uint16   `json:"threshold"`
	VotingBaseTime   uint32   `json:"votingBaseTime"`
	ActiveProposals  uint64   `json:"activeProposals"`
}

type proposalResponse struct {
	Address     string `json:"address"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	State       string `json:"state"`
	YesVotes    uint64 `json:"yesVotes"`
	NoVotes     uint64 `json:"noVotes"`
	DraftAt     int64  `json:"draftAt"`
}

func main() {
	configPath := flag.String("config", "", "path to config file")
	listen := flag.String("listen", ":8090", "listen address")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	s := &server{
		client: multisig.NewClient(
			cfg.RPCURL,
			cfg.WSURL,
			multisig.WithProgramID(cfg.Program()),
		),
	}

	router := mux.NewRouter()
	router.HandleFunc("/health", s.HealthHandler).Methods("GET")
	router.HandleFunc("/multisig/{address}", s.MultisigHandler).Methods("GET")
	router.HandleFunc("/multisig/{address}/proposals", s.ProposalsHandler).Methods("GET")
	router.HandleFunc("/proposal/{address}", s.ProposalHandler).Methods("GET")

	log.Printf("Status API server started on %s", *listen)
	log.Fatal(http.ListenAndServe(*listen, router))
}

func (s *server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *server) MultisigHandler(w http.ResponseWriter, r *http.Request) {
	realm, err := solana.PublicKeyFromBase58(mux.Vars(r)["address"])
	if err != nil {
		http.Error(w, "Invalid address", http.StatusBadRequest)
		return
	}

	info, err := s.client.FetchMultisigInfoByRealm(r.Context(), realm)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	members := make([]string, len(info.Members))
	for i, member := range info.Members {
		members[i] = member.String()
	}

	writeJSON(w, multisigResponse{
		Name:             info.Name,
		Realm:            info.Addresses.Realm.String(),
		Governance:       info.Addresses.Governance.String(),
		Treasury:         info.Addresses.Treasury.String(),
		TreasuryLamports: info.TreasuryLamports,
		Members:          members,
		Threshold:        info.Threshold,
		VotingBaseTime:   info.VotingBaseTime,
		ActiveProposals:  info.ActiveProposals,
	})
}

func (s *server) ProposalsHandler(w http.ResponseWriter, r *http.Request) {
	realm, err := solana.PublicKeyFromBase58(mux.Vars(r)["address"])
	if err != nil {
		http.Error(w, "Invalid address", http.StatusBadRequest)
		return
	}

	info, err := s.client.FetchMultisigInfoByRealm(r.Context(), realm)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	proposals, err := s.client.ListProposals(r.Context(), info.Addresses.Governance)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	out := make([]proposalResponse, 0, len(proposals))
	for _, p := range proposals {
		out = append(out, newProposalResponse(p))
	}
	writeJSON(w, out)
}

func (s *server) ProposalHandler(w http.ResponseWriter, r *http.Request) {
	address, err := solana.PublicKeyFromBase58(mux.Vars(r)["address"])
	if err != nil {
		http.Error(w, "Invalid address", http.StatusBadRequest)
		return
	}

	info, err := s.client.FetchProposal(r.Context(), address)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, newProposalResponse(*info))
}

func newProposalResponse(p multisig.ProposalInfo) proposalResponse {
	return proposalResponse{
		Address:     p.Address.String(),
		Name:        p.Name,
		Description: p.Description,
		State:       p.State.String(),
		YesVotes:    p.YesVotes,
		NoVotes:     p.NoVotes,
		DraftAt:     p.DraftAt,
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
