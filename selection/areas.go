package selection

import (
	"fmt"

	"github.com/kbukum/monox/lookup"
)

// Category selects the photon isolation component an effective area applies to.
type Category int

const (
	ChargedHadron Category = iota
	NeutralHadron
	Photon
)

func (c Category) String() string {
	switch c {
	case ChargedHadron:
		return "charged_hadron"
	case NeutralHadron:
		return "neutral_hadron"
	case Photon:
		return "photon"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// EffectiveAreas holds the pileup-correction effective-area tables.
// Build it with NewEffectiveAreas; the tables are never modified afterwards.
type EffectiveAreas struct {
	Electron            *lookup.Table
	PhotonChargedHadron *lookup.Table
	PhotonNeutralHadron *lookup.Table
	Photon              *lookup.Table
	PhotonHighPt        *lookup.Table
}

// NewEffectiveAreas returns the Run-2 PHYS14 effective areas.
//
// Electron: slide 4 of https://indico.cern.ch/event/370494/contribution/2/material/slides/0.pdf
// Photon:   https://twiki.cern.ch/twiki/bin/view/CMS/CutBasedPhotonIdentificationRun2
func NewEffectiveAreas() EffectiveAreas {
	photonBounds := []float64{1.0, 1.479, 2.0, 2.2, 2.3, 2.4}
	return EffectiveAreas{
		Electron: lookup.MustNew("electron",
			[]float64{0.8, 1.3, 2.0, 2.2, 2.3, 2.4},
			[]float64{0.1752, 0.1862, 0.1411, 0.1534, 0.1903, 0.2243, 0.2687}),
		PhotonChargedHadron: lookup.MustNew("photon_charged_hadron", photonBounds,
			[]float64{0.0157, 0.0143, 0.0115, 0.0094, 0.0095, 0.0068, 0.0053}),
		PhotonNeutralHadron: lookup.MustNew("photon_neutral_hadron", photonBounds,
			[]float64{0.0143, 0.0210, 0.0147, 0.0082, 0.0124, 0.0186, 0.0320}),
		Photon: lookup.MustNew("photon", photonBounds,
			[]float64{0.0725, 0.0604, 0.0320, 0.0512, 0.0766, 0.0949, 0.1160}),
		PhotonHighPt: lookup.MustNew("photon_high_pt",
			[]float64{1.0, 1.479, 2.0, 2.2},
			[]float64{0.17, 0.14, 0.11, 0.14, 0.22}),
	}
}

// EleEffArea returns the electron effective area at eta.
func (s *Selector) EleEffArea(eta float64) float64 {
	return s.areas.Electron.LookupEta(eta)
}

// PhoEffArea returns the photon effective area at eta for the given
// isolation category. It panics for a category outside the enum.
func (s *Selector) PhoEffArea(eta float64, category Category) float64 {
	switch category {
	case ChargedHadron:
		return s.areas.PhotonChargedHadron.LookupEta(eta)
	case NeutralHadron:
		return s.areas.PhotonNeutralHadron.LookupEta(eta)
	case Photon:
		return s.areas.Photon.LookupEta(eta)
	default:
		panic(fmt.Sprintf("selection: PhoEffArea called with invalid category %s", category))
	}
}

// PhoEffAreaHighPt returns the high-pt photon effective area at eta. Only
// the Photon category has a high-pt table; anything else panics.
func (s *Selector) PhoEffAreaHighPt(eta float64, category Category) float64 {
	if category != Photon {
		panic(fmt.Sprintf("selection: PhoEffAreaHighPt called with invalid category %s", category))
	}
	return s.areas.PhotonHighPt.LookupEta(eta)
}
