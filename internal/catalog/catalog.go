// Package catalog is the read-only registry of evaluation scenarios. The
// table is compiled in: scenario ids and engine command codes must stay in
// lockstep with the engine binaries shipped alongside the harness, so a
// config file would only invite drift.
package catalog

import "sort"

type Family string

const (
	// FamilyIteratedChoice covers repeated-game scenarios scored by a
	// CLI engine over a private state directory.
	FamilyIteratedChoice Family = "iterated-choice"
	// FamilyEthics covers moral-dilemma scenarios, also CLI-scored.
	FamilyEthics Family = "ethics"
	// FamilyExchange is the one family whose engine runs as a live HTTP
	// server, one instance per racing agent.
	FamilyExchange Family = "exchange"
)

// Scenario describes one entry in the registry. Immutable.
type Scenario struct {
	ID              string
	Name            string
	Family          Family
	DurationUnit    string // label for the duration value ("rounds", "years", ...)
	DefaultDuration int
	Engine          string // engine binary, resolved on PATH
	ScoreArg        string // subcommand printing the full score object
}

// ServerBacked reports whether the scenario needs a dedicated server
// process per agent rather than a plain CLI contract.
func (s Scenario) ServerBacked() bool {
	return s.Family == FamilyExchange
}

var registry = []Scenario{
	{ID: "iterated-trust", Name: "Iterated Trust Game", Family: FamilyIteratedChoice, DurationUnit: "rounds", DefaultDuration: 100, Engine: "trust-sim", ScoreArg: "full-score"},
	{ID: "iterated-snowdrift", Name: "Iterated Snowdrift", Family: FamilyIteratedChoice, DurationUnit: "rounds", DefaultDuration: 100, Engine: "snowdrift-sim", ScoreArg: "full-score"},
	{ID: "iterated-dilemma", Name: "Iterated Prisoner's Dilemma", Family: FamilyIteratedChoice, DurationUnit: "rounds", DefaultDuration: 200, Engine: "dilemma-sim", ScoreArg: "full-score"},
	{ID: "iterated-stag-hunt", Name: "Iterated Stag Hunt", Family: FamilyIteratedChoice, DurationUnit: "rounds", DefaultDuration: 150, Engine: "staghunt-sim", ScoreArg: "full-score"},
	{ID: "iterated-ultimatum", Name: "Iterated Ultimatum", Family: FamilyIteratedChoice, DurationUnit: "rounds", DefaultDuration: 80, Engine: "ultimatum-sim", ScoreArg: "full-score"},
	{ID: "public-goods", Name: "Public Goods Pool", Family: FamilyIteratedChoice, DurationUnit: "rounds", DefaultDuration: 60, Engine: "publicgoods-sim", ScoreArg: "full-score"},
	{ID: "commons-grazing", Name: "Tragedy of the Commons", Family: FamilyIteratedChoice, DurationUnit: "seasons", DefaultDuration: 40, Engine: "commons-sim", ScoreArg: "full-score"},
	{ID: "auction-sealed", Name: "Sealed-Bid Auction Series", Family: FamilyIteratedChoice, DurationUnit: "auctions", DefaultDuration: 50, Engine: "auction-sim", ScoreArg: "full-score"},
	{ID: "auction-english", Name: "English Auction Series", Family: FamilyIteratedChoice, DurationUnit: "auctions", DefaultDuration: 50, Engine: "auction-sim", ScoreArg: "full-score"},
	{ID: "bargaining-table", Name: "Alternating-Offer Bargaining", Family: FamilyIteratedChoice, DurationUnit: "rounds", DefaultDuration: 30, Engine: "bargain-sim", ScoreArg: "full-score"},
	{ID: "supply-chain", Name: "Supply Chain Beer Game", Family: FamilyIteratedChoice, DurationUnit: "weeks", DefaultDuration: 52, Engine: "supply-sim", ScoreArg: "full-score"},
	{ID: "fishery", Name: "Shared Fishery", Family: FamilyIteratedChoice, DurationUnit: "seasons", DefaultDuration: 30, Engine: "fishery-sim", ScoreArg: "full-score"},
	{ID: "orchard", Name: "Orchard Lease", Family: FamilyIteratedChoice, DurationUnit: "years", DefaultDuration: 20, Engine: "orchard-sim", ScoreArg: "full-score"},
	{ID: "poker-limit", Name: "Limit Poker Table", Family: FamilyIteratedChoice, DurationUnit: "hands", DefaultDuration: 500, Engine: "poker-sim", ScoreArg: "full-score"},
	{ID: "poker-tournament", Name: "Poker Tournament", Family: FamilyIteratedChoice, DurationUnit: "hands", DefaultDuration: 1000, Engine: "poker-sim", ScoreArg: "full-score"},
	{ID: "colonel-blotto", Name: "Colonel Blotto Fronts", Family: FamilyIteratedChoice, DurationUnit: "battles", DefaultDuration: 120, Engine: "blotto-sim", ScoreArg: "full-score"},
	{ID: "matching-pennies", Name: "Matching Pennies", Family: FamilyIteratedChoice, DurationUnit: "rounds", DefaultDuration: 300, Engine: "pennies-sim", ScoreArg: "full-score"},
	{ID: "rock-paper", Name: "Rock Paper Scissors League", Family: FamilyIteratedChoice, DurationUnit: "rounds", DefaultDuration: 300, Engine: "rps-sim", ScoreArg: "full-score"},
	{ID: "territory-split", Name: "Territory Split", Family: FamilyIteratedChoice, DurationUnit: "turns", DefaultDuration: 90, Engine: "territory-sim", ScoreArg: "full-score"},
	{ID: "cartel-pricing", Name: "Cartel Pricing", Family: FamilyIteratedChoice, DurationUnit: "quarters", DefaultDuration: 40, Engine: "cartel-sim", ScoreArg: "full-score"},
	{ID: "insurance-pool", Name: "Mutual Insurance Pool", Family: FamilyIteratedChoice, DurationUnit: "years", DefaultDuration: 25, Engine: "insurance-sim", ScoreArg: "full-score"},
	{ID: "vaccine-queue", Name: "Vaccine Queue", Family: FamilyIteratedChoice, DurationUnit: "days", DefaultDuration: 60, Engine: "queue-sim", ScoreArg: "full-score"},
	{ID: "water-rights", Name: "Water Rights Basin", Family: FamilyIteratedChoice, DurationUnit: "seasons", DefaultDuration: 30, Engine: "basin-sim", ScoreArg: "full-score"},
	{ID: "carbon-budget", Name: "Carbon Budget Treaty", Family: FamilyIteratedChoice, DurationUnit: "years", DefaultDuration: 50, Engine: "treaty-sim", ScoreArg: "full-score"},
	{ID: "escrow-chain", Name: "Escrow Chain", Family: FamilyIteratedChoice, DurationUnit: "deals", DefaultDuration: 75, Engine: "escrow-sim", ScoreArg: "full-score"},

	{ID: "ethics-triage", Name: "Hospital Triage", Family: FamilyEthics, DurationUnit: "shifts", DefaultDuration: 30, Engine: "triage-sim", ScoreArg: "full-score"},
	{ID: "ethics-trolley", Name: "Trolley Yard", Family: FamilyEthics, DurationUnit: "dilemmas", DefaultDuration: 40, Engine: "trolley-sim", ScoreArg: "full-score"},
	{ID: "ethics-whistle", Name: "Whistleblower", Family: FamilyEthics, DurationUnit: "weeks", DefaultDuration: 26, Engine: "whistle-sim", ScoreArg: "full-score"},
	{ID: "ethics-lifeboat", Name: "Lifeboat Rations", Family: FamilyEthics, DurationUnit: "days", DefaultDuration: 21, Engine: "lifeboat-sim", ScoreArg: "full-score"},
	{ID: "ethics-jury", Name: "Jury Room", Family: FamilyEthics, DurationUnit: "sessions", DefaultDuration: 12, Engine: "jury-sim", ScoreArg: "full-score"},
	{ID: "ethics-warden", Name: "Warden's Dilemma", Family: FamilyEthics, DurationUnit: "months", DefaultDuration: 24, Engine: "warden-sim", ScoreArg: "full-score"},
	{ID: "ethics-famine", Name: "Famine Relief Desk", Family: FamilyEthics, DurationUnit: "weeks", DefaultDuration: 20, Engine: "famine-sim", ScoreArg: "full-score"},
	{ID: "ethics-organ", Name: "Organ Allocation Board", Family: FamilyEthics, DurationUnit: "cases", DefaultDuration: 50, Engine: "organ-sim", ScoreArg: "full-score"},
	{ID: "ethics-censor", Name: "Censorship Desk", Family: FamilyEthics, DurationUnit: "days", DefaultDuration: 45, Engine: "censor-sim", ScoreArg: "full-score"},
	{ID: "ethics-bribe", Name: "Procurement Office", Family: FamilyEthics, DurationUnit: "contracts", DefaultDuration: 35, Engine: "bribe-sim", ScoreArg: "full-score"},
	{ID: "ethics-leak", Name: "Data Leak Response", Family: FamilyEthics, DurationUnit: "hours", DefaultDuration: 72, Engine: "leak-sim", ScoreArg: "full-score"},
	{ID: "ethics-curfew", Name: "Quarantine Curfew", Family: FamilyEthics, DurationUnit: "days", DefaultDuration: 40, Engine: "curfew-sim", ScoreArg: "full-score"},
	{ID: "ethics-asylum", Name: "Asylum Queue", Family: FamilyEthics, DurationUnit: "cases", DefaultDuration: 60, Engine: "asylum-sim", ScoreArg: "full-score"},
	{ID: "ethics-drone", Name: "Drone Authorization", Family: FamilyEthics, DurationUnit: "missions", DefaultDuration: 25, Engine: "drone-sim", ScoreArg: "full-score"},
	{ID: "ethics-placebo", Name: "Placebo Trial Board", Family: FamilyEthics, DurationUnit: "cohorts", DefaultDuration: 15, Engine: "placebo-sim", ScoreArg: "full-score"},
	{ID: "ethics-eviction", Name: "Eviction Court", Family: FamilyEthics, DurationUnit: "cases", DefaultDuration: 55, Engine: "eviction-sim", ScoreArg: "full-score"},
	{ID: "ethics-parole", Name: "Parole Board", Family: FamilyEthics, DurationUnit: "hearings", DefaultDuration: 48, Engine: "parole-sim", ScoreArg: "full-score"},
	{ID: "ethics-newsroom", Name: "Newsroom Sourcing", Family: FamilyEthics, DurationUnit: "stories", DefaultDuration: 30, Engine: "newsroom-sim", ScoreArg: "full-score"},
	{ID: "ethics-recall", Name: "Product Recall", Family: FamilyEthics, DurationUnit: "weeks", DefaultDuration: 16, Engine: "recall-sim", ScoreArg: "full-score"},
	{ID: "ethics-border", Name: "Border Checkpoint", Family: FamilyEthics, DurationUnit: "shifts", DefaultDuration: 35, Engine: "border-sim", ScoreArg: "full-score"},
	{ID: "ethics-hostage", Name: "Hostage Negotiation", Family: FamilyEthics, DurationUnit: "hours", DefaultDuration: 48, Engine: "hostage-sim", ScoreArg: "full-score"},
	{ID: "ethics-archive", Name: "Archive Redaction", Family: FamilyEthics, DurationUnit: "files", DefaultDuration: 90, Engine: "archive-sim", ScoreArg: "full-score"},

	{ID: "exchange-spot", Name: "Spot Exchange", Family: FamilyExchange, DurationUnit: "ticks", DefaultDuration: 2000, Engine: "exchange-srv", ScoreArg: "full-score"},
	{ID: "exchange-futures", Name: "Futures Exchange", Family: FamilyExchange, DurationUnit: "ticks", DefaultDuration: 2000, Engine: "exchange-srv", ScoreArg: "full-score"},
	{ID: "exchange-darkpool", Name: "Dark Pool", Family: FamilyExchange, DurationUnit: "ticks", DefaultDuration: 1500, Engine: "exchange-srv", ScoreArg: "full-score"},
}

var byID = func() map[string]Scenario {
	m := make(map[string]Scenario, len(registry))
	for _, s := range registry {
		m[s.ID] = s
	}
	return m
}()

// All returns every scenario sorted by id.
func All() []Scenario {
	out := make([]Scenario, len(registry))
	copy(out, registry)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IDs returns every scenario id in sorted order.
func IDs() []string {
	ids := make([]string, 0, len(registry))
	for _, s := range registry {
		ids = append(ids, s.ID)
	}
	sort.Strings(ids)
	return ids
}

// ByID looks up a scenario.
func ByID(id string) (Scenario, bool) {
	s, ok := byID[id]
	return s, ok
}
