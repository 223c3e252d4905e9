package handler

import (
	"strings"

	"revloop/internal/loop/service"
	"revloop/pkg/domain"
	dErrors "revloop/pkg/domain-errors"
)

// StartRequest begins a new loop run. Zero values fall back to the configured
// defaults, so an empty body is a valid request.
type StartRequest struct {
	CurrentFriction *float64 `json:"current_friction,omitempty"`
	TargetFriction  *float64 `json:"target_friction,omitempty"`
}

func (r StartRequest) Validate() error {
	if r.CurrentFriction != nil && *r.CurrentFriction < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "current_friction must not be negative")
	}
	if r.TargetFriction != nil && *r.TargetFriction < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "target_friction must not be negative")
	}
	if r.CurrentFriction != nil && r.TargetFriction != nil && *r.TargetFriction > *r.CurrentFriction {
		return dErrors.New(dErrors.CodeInvalidInput, "target_friction must not exceed current_friction")
	}
	return nil
}

// CaptureRequest records one objection.
type CaptureRequest struct {
	Source        string `json:"source"`
	Text          string `json:"text"`
	Persona       string `json:"persona,omitempty"`
	CampaignRef   string `json:"campaign_ref,omitempty"`
	HypothesisRef string `json:"hypothesis_ref,omitempty"`
}

func (r CaptureRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "text is required")
	}
	if _, err := domain.ParseSourceChannel(r.Source); err != nil {
		return err
	}
	return nil
}

// ToInput converts the request into the service's capture input. Client
// metadata is filled in by the handler from the request context.
func (r CaptureRequest) ToInput() service.CaptureInput {
	source, _ := domain.ParseSourceChannel(r.Source)
	return service.CaptureInput{
		Source:        source,
		Text:          strings.TrimSpace(r.Text),
		Persona:       strings.TrimSpace(r.Persona),
		CampaignRef:   strings.TrimSpace(r.CampaignRef),
		HypothesisRef: strings.TrimSpace(r.HypothesisRef),
	}
}

// PatchRequest applies content patches for the named categories.
type PatchRequest struct {
	Categories []string `json:"categories"`
}

func (r PatchRequest) Validate() error {
	if len(r.Categories) == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "categories must not be empty")
	}
	return nil
}

// CompleteIterationRequest closes the active iteration with a measured value.
type CompleteIterationRequest struct {
	FrictionAfter *float64 `json:"friction_after"`
}

func (r CompleteIterationRequest) Validate() error {
	if r.FrictionAfter == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "friction_after is required")
	}
	if *r.FrictionAfter < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "friction_after must not be negative")
	}
	return nil
}

// ScheduleStartRequest begins the autonomous schedule. When target_ticks is
// omitted the configured iteration cap is used, so an empty body is a valid
// request.
type ScheduleStartRequest struct {
	TargetTicks int `json:"target_ticks,omitempty"`
}

func (r ScheduleStartRequest) Validate() error {
	if r.TargetTicks < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "target_ticks must not be negative")
	}
	return nil
}
