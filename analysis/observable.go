package analysis

import (
	"github.com/kbukum/monox/record"
	"github.com/kbukum/monox/selection"
)

// Event collection names.
const (
	CollectionMuon   = "Muon"
	CollectionAK4CHS = "AK4CHS"
)

// Observable names a per-event integer quantity.
type Observable string

const (
	// ObservableMuons is the number of muons in the event.
	ObservableMuons Observable = "muons"
	// ObservableLooseMuons is the number of muons passing PassMuonLoose.
	ObservableLooseMuons Observable = "loose_muons"
	// ObservableJets is the number of AK4 CHS jets in the event.
	ObservableJets Observable = "jets"
	// ObservableJet04 is the number of AK4 CHS jets passing PassJet04.
	ObservableJet04 Observable = "jet04"
)

// Observables lists every supported observable.
func Observables() []Observable {
	return []Observable{ObservableMuons, ObservableLooseMuons, ObservableJets, ObservableJet04}
}

// measurement is the value of an observable for one event plus the
// selection it applied, if any.
type measurement struct {
	value      int
	collection string
	predicate  string
}

func (o Observable) measure(sel *selection.Selector, event *record.Record) (measurement, error) {
	switch o {
	case ObservableMuons:
		n, err := event.Count(CollectionMuon)
		return measurement{value: n}, err
	case ObservableLooseMuons:
		n, err := sel.CountPassing(event, CollectionMuon, sel.PassMuonLoose)
		return measurement{value: n, collection: CollectionMuon, predicate: "muon_loose"}, err
	case ObservableJets:
		n, err := event.Count(CollectionAK4CHS)
		return measurement{value: n}, err
	case ObservableJet04:
		n, err := sel.CountPassing(event, CollectionAK4CHS, sel.PassJet04)
		return measurement{value: n, collection: CollectionAK4CHS, predicate: "jet04"}, err
	default:
		return measurement{}, errUnknownObservable(o)
	}
}
