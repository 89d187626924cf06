// Package artifact renders a prepared factorization as a deterministic JSON
// document: the hand-off consumed by downstream code generation. Per entry it
// carries only the target identity, the selected rule and the ordered inbound
// references.
package artifact

import (
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/vk/factorgrid/internal/factorization"
	"github.com/vk/factorgrid/internal/schedule"
)

// Document is the root of the schedule artifact.
type Document struct {
	Model   string        `json:"model,omitempty"`
	Factors []Factor      `json:"factors"`
	Energy  []EnergyTerm  `json:"energy,omitempty"`
	Entropy []EntropyTerm `json:"entropy,omitempty"`
}

// Factor is one posterior factor's schedule and exposed targets.
type Factor struct {
	ID        string   `json:"id"`
	Variables []string `json:"variables,omitempty"`
	Clusters  []string `json:"clusters,omitempty"`
	Entries   []Entry  `json:"entries"`
}

// Entry is one instruction of a schedule.
type Entry struct {
	Index   int    `json:"index"`
	Kind    string `json:"kind"`
	Target  string `json:"target"`
	Rule    string `json:"rule"`
	Family  string `json:"family,omitempty"`
	Init    bool   `json:"init,omitempty"`
	Inbound []Ref  `json:"inbound,omitempty"`
}

// Ref is one inbound reference: an earlier entry index, or an external
// region resolved by another posterior factor.
type Ref struct {
	Entry  *int   `json:"entry,omitempty"`
	Region string `json:"region,omitempty"`
}

// EnergyTerm is one average-energy multiplicity.
type EnergyTerm struct {
	Node  string `json:"node"`
	Count int    `json:"count"`
}

// EntropyTerm is one entropy-region multiplicity.
type EntropyTerm struct {
	Region string `json:"region"`
	Count  int    `json:"count"`
	Forced bool   `json:"forced,omitempty"`
}

// FromFactorization flattens a prepared factorization into a document.
func FromFactorization(model string, fz *factorization.Factorization) *Document {
	doc := &Document{Model: model}

	for _, f := range fz.Factors() {
		af := Factor{ID: f.ID, Entries: make([]Entry, 0, len(f.Schedule))}
		for _, v := range f.TargetVariables {
			af.Variables = append(af.Variables, v.Name)
		}
		for _, c := range f.TargetClusters {
			af.Clusters = append(af.Clusters, c.ID())
		}
		for _, e := range f.Schedule {
			af.Entries = append(af.Entries, flatten(e))
		}
		doc.Factors = append(doc.Factors, af)
	}

	for _, n := range fz.EnergyNodes() {
		doc.Energy = append(doc.Energy, EnergyTerm{Node: n.Name, Count: fz.EnergyCount(n)})
	}
	if table := fz.EntropyTable(); table != nil {
		for _, entry := range table.Required() {
			term := EntropyTerm{
				Count:  entry.Counting.Multiplicity(),
				Forced: entry.Counting.Forced,
			}
			if entry.Variable != nil {
				term.Region = entry.Variable.Name
			} else {
				term.Region = entry.Cluster.ID()
			}
			doc.Entropy = append(doc.Entropy, term)
		}
	}
	return doc
}

func flatten(e *schedule.Entry) Entry {
	out := Entry{
		Index:  e.Index,
		Kind:   e.Kind.String(),
		Target: e.TargetID(),
		Rule:   e.RuleID,
		Family: e.Family,
		Init:   e.Init,
	}
	for _, in := range e.Inbound {
		if in.Entry != nil {
			idx := in.Entry.Index
			out.Inbound = append(out.Inbound, Ref{Entry: &idx})
			continue
		}
		out.Inbound = append(out.Inbound, Ref{Region: in.RegionID})
	}
	return out
}

// Encode renders the document as indented JSON.
func (d *Document) Encode() ([]byte, error) {
	data, err := sonic.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding schedule artifact: %w", err)
	}
	return data, nil
}
