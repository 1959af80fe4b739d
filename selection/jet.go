package selection

import (
	"math"

	"github.com/kbukum/monox/lookup"
	"github.com/kbukum/monox/record"
)

// Jet record field names.
const (
	FieldNeuHadFrac = "neuHadFrac"
	FieldNeuEmFrac  = "neuEmFrac"
	FieldNParticles = "nParticles"
	FieldMuonFrac   = "muonFrac"
	FieldChHadFrac  = "chHadFrac"
	FieldNCharged   = "nCharged"
	FieldChEmFrac   = "chEmFrac"
	FieldMVA        = "mva"
	FieldEta        = "eta"
)

// Loose PF jet ID cut values.
const (
	JetMaxNeuHadFrac = 0.99
	JetMaxNeuEmFrac  = 0.99
	JetMinParticles  = 1 // a jet needs more than this many constituents
	JetMaxMuonFrac   = 0.8
	JetMaxChEmFrac   = 0.99
	// JetTrackerEta is the |eta| below which the charged-constituent cuts apply.
	JetTrackerEta = 2.4
)

// newPileupJetIDTable returns the minimum MVA discriminant per |eta| bin.
// Jets at |eta| >= 5 have no threshold and pass; the fallback of -Inf keeps
// that behavior explicit rather than inventing a cut.
func newPileupJetIDTable() *lookup.Table {
	return lookup.MustNew("pileup_jet_id",
		[]float64{2.5, 2.75, 3.0, 5.0},
		[]float64{-0.63, -0.60, -0.55, -0.45, math.Inf(-1)})
}

// PassJet04 applies the loose PF jet ID followed by the pileup jet ID.
func (s *Selector) PassJet04(jet *record.Record) (bool, error) {
	r := &fieldReader{rec: jet}
	if !passLooseJetID(r, true) {
		return r.result(false)
	}
	return r.result(s.passPileup(r))
}

// PassJetLoose applies only the loose PF jet ID, for places that need basic
// jet quality. Unlike PassJet04 it has no pileup stage and no muon energy
// fraction cut.
func (s *Selector) PassJetLoose(jet *record.Record) (bool, error) {
	r := &fieldReader{rec: jet}
	return r.result(passLooseJetID(r, false))
}

// PassPileupJetID applies only the eta-binned MVA threshold.
func (s *Selector) PassPileupJetID(jet *record.Record) (bool, error) {
	r := &fieldReader{rec: jet}
	return r.result(s.passPileup(r))
}

// PileupJetIDThreshold returns the minimum MVA at eta, or -Inf where no
// threshold is defined.
func (s *Selector) PileupJetIDThreshold(eta float64) float64 {
	return s.puJetID.LookupEta(eta)
}

func passLooseJetID(r *fieldReader, muonCut bool) bool {
	if r.float(FieldNeuHadFrac) >= JetMaxNeuHadFrac {
		return false
	}
	if r.float(FieldNeuEmFrac) >= JetMaxNeuEmFrac {
		return false
	}
	if r.float(FieldNParticles) <= JetMinParticles {
		return false
	}
	if muonCut && r.float(FieldMuonFrac) >= JetMaxMuonFrac {
		return false
	}
	if r.absFloat(FieldEta) < JetTrackerEta {
		if r.float(FieldChHadFrac) == 0 {
			return false
		}
		if r.float(FieldNCharged) == 0 {
			return false
		}
		if r.float(FieldChEmFrac) >= JetMaxChEmFrac {
			return false
		}
	}
	return true
}

func (s *Selector) passPileup(r *fieldReader) bool {
	threshold := s.puJetID.Lookup(r.absFloat(FieldEta))
	return !(r.float(FieldMVA) < threshold)
}
