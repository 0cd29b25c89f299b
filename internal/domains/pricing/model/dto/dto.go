package dto

import (
	"villa/internal/domains/pricing/model"
	"villa/shared/money"
	"villa/shared/timezone"
)

type AddSeasonRuleRequest struct {
	Start       string  `json:"start"        validate:"required,datestring"`
	End         string  `json:"end"          validate:"required,datestring"`
	Label       string  `json:"label"        validate:"required,max=50"`
	NightlyRate float64 `json:"nightly_rate" validate:"required,gt=0"`
	MinNights   int     `json:"min_nights"   validate:"required,min=1,max=60"`
}

func (r *AddSeasonRuleRequest) ToModel() (model.SeasonRule, error) {
	start, err := timezone.ParseDate(r.Start)
	if err != nil {
		return model.SeasonRule{}, err
	}

	end, err := timezone.ParseDate(r.End)
	if err != nil {
		return model.SeasonRule{}, err
	}

	return model.SeasonRule{
		Start:       start,
		End:         end,
		Label:       r.Label,
		NightlyRate: int64(r.NightlyRate),
		MinNights:   r.MinNights,
	}, nil
}

type SeasonRuleResponse struct {
	Start       string  `json:"start"`
	End         string  `json:"end"`
	Label       string  `json:"label"`
	NightlyRate float64 `json:"nightly_rate"`
	MinNights   int     `json:"min_nights"`
	Currency    string  `json:"currency"`
}

func (r *SeasonRuleResponse) FromModel(rule model.SeasonRule) {
	r.Start = rule.Start.String()
	r.End = rule.End.String()
	r.Label = rule.Label
	r.NightlyRate = rule.Rate().Major()
	r.MinNights = rule.MinNights
	r.Currency = string(money.BaseCurrency)
}

type GetSeasonRulesResponse struct {
	Rules  []SeasonRuleResponse `json:"rules"`
	Issues []string             `json:"issues,omitempty"`
}

func (r *GetSeasonRulesResponse) FromModels(rules []model.SeasonRule, issues []string) {
	r.Rules = make([]SeasonRuleResponse, len(rules))
	for i, rule := range rules {
		r.Rules[i].FromModel(rule)
	}

	r.Issues = issues
}
