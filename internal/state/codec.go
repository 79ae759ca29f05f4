package state

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/wtp/internal/domain"
	"github.com/rgehrsitz/wtp/internal/scenario"
)

// ErrCorrupt wraps any failure to decode a saved or imported record.
var ErrCorrupt = errors.New("unreadable planner data")

// EncodeOptions control what Encode writes.
type EncodeOptions struct {
	// IncludeAPIKey writes the workspace API key into the record. Off by
	// default; the key normally lives only in the sealed secret file.
	IncludeAPIKey bool
	// Export stamps exportedAt instead of savedAt.
	Export bool
	Indent bool
	Now    time.Time
}

// Encode serializes a workspace into the record format.
func Encode(w *Workspace, opts EncodeOptions) ([]byte, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	accounts := fromBalances(w.Inputs.Accounts)
	rec := Record{
		PersonalInfo:     fromPersonal(w.Inputs.PersonalInfo),
		Accounts:         &accounts,
		Stocks:           fromStocks(w.Inputs.Holdings.Stocks),
		Crypto:           fromUnits(w.Inputs.Holdings.Crypto),
		Metals:           fromUnits(w.Inputs.Holdings.Metals),
		ActiveScenarioID: w.Scenarios.ActiveID(),
		ScenarioCounter:  w.Scenarios.Counter(),
	}
	for _, s := range w.Scenarios.List() {
		rec.Scenarios = append(rec.Scenarios, fromScenario(s))
	}
	if opts.IncludeAPIKey {
		rec.APIKey = w.APIKey
	}
	if opts.Export {
		rec.ExportedAt = &now
	} else {
		rec.SavedAt = &now
	}

	if opts.Indent {
		return json.MarshalIndent(rec, "", "  ")
	}
	return json.Marshal(rec)
}

// Decode reads a record and applies it over base. Sections missing from the
// record keep base's personal info, accounts and stocks; crypto and metals
// default to empty. A record without scenarios is migrated from the single
// scenario layout. base is not modified.
func Decode(data []byte, base *Workspace) (*Workspace, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return apply(&rec, base)
}

func apply(rec *Record, base *Workspace) (*Workspace, error) {
	if base == nil {
		base = Defaults()
	}
	w := &Workspace{Inputs: base.Inputs.Clone()}

	if rec.PersonalInfo != nil {
		w.Inputs.PersonalInfo = rec.PersonalInfo.toDomain()
	}
	if rec.Accounts != nil {
		w.Inputs.Accounts = rec.Accounts.toDomain()
	}
	if rec.Stocks != nil {
		w.Inputs.Holdings.Stocks = toStocks(rec.Stocks)
	}
	w.Inputs.Holdings.Crypto = toUnits(rec.Crypto)
	w.Inputs.Holdings.Metals = toUnits(rec.Metals)

	coll, err := restoreScenarios(rec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	w.Scenarios = coll
	w.APIKey = rec.APIKey

	switch {
	case rec.SavedAt != nil:
		w.UpdatedAt = *rec.SavedAt
	case rec.ExportedAt != nil:
		w.UpdatedAt = *rec.ExportedAt
	}
	return w, nil
}

func restoreScenarios(rec *Record) (*scenario.Collection, error) {
	if len(rec.Scenarios) == 0 {
		return migrateLegacy(rec), nil
	}

	list := make([]domain.Scenario, 0, len(rec.Scenarios))
	maxID := 0
	for _, sr := range rec.Scenarios {
		list = append(list, sr.toDomain())
		if sr.ID > maxID {
			maxID = sr.ID
		}
	}
	counter := rec.ScenarioCounter
	if counter == 0 {
		counter = max(len(list), maxID)
	}
	active := rec.ActiveScenarioID
	if active == 0 && len(list) > 0 {
		active = list[0].ID
	}
	return scenario.Restore(list, active, counter)
}

// migrateLegacy builds scenario 1 from the top-level withdrawal fields.
func migrateLegacy(rec *Record) *scenario.Collection {
	s := domain.NewScenario(1)
	if rec.Withdrawals != nil {
		s.Withdrawals = rec.Withdrawals.toDomain()
	}
	addSales(&s, rec.StockWithdrawals, rec.CryptoSales, rec.MetalSales)

	coll, _ := scenario.Restore([]domain.Scenario{s}, 1, 1)
	return coll
}
