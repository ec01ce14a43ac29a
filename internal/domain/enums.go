package domain

import "fmt"

// Industry classifies a company. Values match the industry picklist shared
// with the remote CRM schema.
type Industry string

// Industries lists every industry in declaration order.
var Industries = []Industry{
	"agriculture",
	"apparel",
	"banking",
	"biotechnology",
	"chemical",
	"communications",
	"construction",
	"consulting",
	"education",
	"electronics",
	"energy",
	"engineering",
	"entertainment",
	"environmental",
	"finance",
	"food_beverage",
	"government",
	"healthcare",
	"hospitality",
	"insurance",
	"machinery",
	"manufacturing",
	"media",
	"not_for_profit",
	"recreation",
	"retail",
	"shipping",
	"technology",
	"telecommunications",
	"transportation",
	"utilities",
}

// Stage is a deal pipeline stage. The slice order is the business order and
// drives the sortOrder of the exported stage reference data.
type Stage string

// Deal pipeline stages in business order.
const (
	StageProspecting        Stage = "prospecting"
	StageQualification      Stage = "qualification"
	StageNeedsAnalysis      Stage = "needs_analysis"
	StageValueProposition   Stage = "value_proposition"
	StageIDDecisionMakers   Stage = "id_decision_makers"
	StagePerceptionAnalysis Stage = "perception_analysis"
	StageProposalPriceQuote Stage = "proposal_price_quote"
	StageNegotiationReview  Stage = "negotiation_review"
	StageClosedWon          Stage = "closed_won"
	StageClosedLost         Stage = "closed_lost"
)

// Stages lists every stage in business order.
var Stages = []Stage{
	StageProspecting,
	StageQualification,
	StageNeedsAnalysis,
	StageValueProposition,
	StageIDDecisionMakers,
	StagePerceptionAnalysis,
	StageProposalPriceQuote,
	StageNegotiationReview,
	StageClosedWon,
	StageClosedLost,
}

// DealStatus is the coarse outcome of a deal.
type DealStatus string

const (
	DealStatusWon  DealStatus = "won"
	DealStatusLost DealStatus = "lost"
	DealStatusOpen DealStatus = "open"
)

// DealStatuses lists every deal status in declaration order.
var DealStatuses = []DealStatus{DealStatusWon, DealStatusLost, DealStatusOpen}

// LeadStatus tracks a lead through qualification.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusLost      LeadStatus = "lost"
	LeadStatusConverted LeadStatus = "converted"
)

// LeadStatuses lists every lead status in declaration order.
var LeadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusQualified,
	LeadStatusLost,
	LeadStatusConverted,
}

// Role separates admin users from regular users.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseIndustry validates a raw industry value.
func ParseIndustry(raw string) (Industry, error) {
	for _, industry := range Industries {
		if string(industry) == raw {
			return industry, nil
		}
	}
	return "", fmt.Errorf("unknown industry %q", raw)
}

// ParseStage validates a raw stage value.
func ParseStage(raw string) (Stage, error) {
	for _, stage := range Stages {
		if string(stage) == raw {
			return stage, nil
		}
	}
	return "", fmt.Errorf("unknown stage %q", raw)
}

// ParseDealStatus validates a raw deal status value.
func ParseDealStatus(raw string) (DealStatus, error) {
	for _, status := range DealStatuses {
		if string(status) == raw {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown deal status %q", raw)
}

// ParseLeadStatus validates a raw lead status value.
func ParseLeadStatus(raw string) (LeadStatus, error) {
	for _, status := range LeadStatuses {
		if string(status) == raw {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown lead status %q", raw)
}

// ParseRole validates a raw role value.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleAdmin, RoleUser:
		return Role(raw), nil
	}
	return "", fmt.Errorf("unknown role %q", raw)
}
