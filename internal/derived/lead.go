package derived

import "math"

// Stage is a sales pipeline stage.
type Stage string

const (
	StageDiscovery     Stage = "discovery"
	StageQualification Stage = "qualification"
	StageProposal      Stage = "proposal"
	StageNegotiation   Stage = "negotiation"
	StageClosedWon     Stage = "closed-won"
	StageClosedLost    Stage = "closed-lost"
)

// Stages lists every stage in funnel order.
var Stages = []Stage{StageDiscovery, StageQualification, StageProposal, StageNegotiation, StageClosedWon, StageClosedLost}

// funnelStages is the funnel chart order. closed-lost is not charted.
var funnelStages = []Stage{StageDiscovery, StageQualification, StageProposal, StageNegotiation, StageClosedWon}

func (s Stage) String() string { return string(s) }

// Terminal reports whether the stage closes the deal either way.
func (s Stage) Terminal() bool {
	return s == StageClosedWon || s == StageClosedLost
}

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	for _, st := range Stages {
		if s == st {
			return true
		}
	}
	return false
}

// ComputeLeadWeightedValue scales a lead's value by its close probability.
func ComputeLeadWeightedValue(value, probability int64) float64 {
	return float64(value) * float64(probability) / 100
}

// LeadAmount is the slice of a lead the pipeline rollups need.
type LeadAmount struct {
	Stage       Stage
	Value       int64
	Probability int64
}

// PipelineStage is one bar of the sales funnel.
type PipelineStage struct {
	Name   string `json:"name"`
	Key    Stage  `json:"key"`
	Deals  int    `json:"deals"`
	Amount int64  `json:"amount"`
}

// AggregatePipelineByStage returns exactly five funnel entries in fixed order.
// Amount is the stage's summed value in whole millions, rounded half up.
func AggregatePipelineByStage(leads []LeadAmount) []PipelineStage {
	out := make([]PipelineStage, len(funnelStages))
	for i, stage := range funnelStages {
		var sum int64
		deals := 0
		for _, l := range leads {
			if l.Stage != stage {
				continue
			}
			deals++
			sum += l.Value
		}
		out[i] = PipelineStage{
			Name:   StageLabel(stage),
			Key:    stage,
			Deals:  deals,
			Amount: roundMillions(sum),
		}
	}
	return out
}

// PipelineSummary is the open (non-terminal) pipeline.
type PipelineSummary struct {
	OpenDeals     int     `json:"open_deals"`
	Value         int64   `json:"value"`
	WeightedValue float64 `json:"weighted_value"`
}

// OpenPipeline sums value and weighted value over leads not yet closed.
func OpenPipeline(leads []LeadAmount) PipelineSummary {
	var summary PipelineSummary
	for _, l := range leads {
		if l.Stage.Terminal() {
			continue
		}
		summary.OpenDeals++
		summary.Value += l.Value
		summary.WeightedValue += ComputeLeadWeightedValue(l.Value, l.Probability)
	}
	return summary
}

func roundMillions(sum int64) int64 {
	return int64(math.Floor(float64(sum)/1_000_000 + 0.5))
}
