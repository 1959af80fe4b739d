// Package selection implements the physics-object identification rules
// applied to normalized event records: loose PF jet ID with and without the
// pileup jet ID, loose muon ID with delta-beta corrected isolation, and the
// electron and photon effective areas used for pileup correction.
//
// All predicates are pure and conjunctive. They read record fields in the
// order the cuts are evaluated and stop at the first failing cut, so a field
// is only required if the evaluation reaches it. A missing field is returned
// as a MISSING_FIELD error and never recovered here.
//
// The effective-area and pileup-ID tables are not package globals: they are
// built once by NewEffectiveAreas / NewSelector and passed to callers.
//
//	sel := selection.NewSelector(selection.NewEffectiveAreas())
//	ok, err := sel.PassJet04(jet)
package selection
