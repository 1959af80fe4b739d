package selection

import (
	"math"

	"github.com/kbukum/monox/record"
)

// Muon record field names.
const (
	FieldPOGIDBits = "pogIDBits"
	FieldChHadIso  = "chHadIso"
	FieldNeuHadIso = "neuHadIso"
	FieldGammaIso  = "gammaIso"
	FieldPUIso     = "puIso"
	FieldPt        = "pt"
)

// POG muon ID bits in pogIDBits.
const (
	POGLooseMuon  uint64 = 1
	POGTightMuon  uint64 = 2
	POGSoftMuon   uint64 = 4
	POGHighPtMuon uint64 = 8
)

// Delta-beta isolation constants. Fixed by the selection, not configurable.
const (
	MuonPileupFactor = 0.5
	MuonRelIsoCut    = 0.2
)

// PassMuonLoose requires the POG loose ID bit and a delta-beta corrected
// PF isolation below MuonRelIsoCut * pt.
func (s *Selector) PassMuonLoose(muon *record.Record) (bool, error) {
	r := &fieldReader{rec: muon}
	if r.uint(FieldPOGIDBits)&POGLooseMuon == 0 {
		return r.result(false)
	}
	iso := muonIsolation(r)
	return r.result(!(iso >= MuonRelIsoCut*r.float(FieldPt)))
}

// MuonIsolation returns chHadIso + max(neuHadIso + gammaIso - 0.5*puIso, 0).
func (s *Selector) MuonIsolation(muon *record.Record) (float64, error) {
	r := &fieldReader{rec: muon}
	iso := muonIsolation(r)
	if r.err != nil {
		return 0, r.err
	}
	return iso, nil
}

func muonIsolation(r *fieldReader) float64 {
	ch := r.float(FieldChHadIso)
	neutral := r.float(FieldNeuHadIso) + r.float(FieldGammaIso) - MuonPileupFactor*r.float(FieldPUIso)
	return ch + math.Max(neutral, 0)
}
