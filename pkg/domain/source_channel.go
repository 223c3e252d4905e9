package domain

import dErrors "revloop/pkg/domain-errors"

// SourceChannel identifies where an objection was captured.
// Invariant: the value must be one of the supported channels.
//
// Usage: construct via ParseSourceChannel at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type SourceChannel string

// Supported capture channels.
const (
	SourceEmailReply SourceChannel = "email-reply"
	SourceSalesCall  SourceChannel = "sales-call"
	SourceSocialDM   SourceChannel = "social-dm"
	SourceForm       SourceChannel = "form"
	SourceManual     SourceChannel = "manual"
)

// validSourceChannels is the single source of truth for valid channels.
var validSourceChannels = map[SourceChannel]bool{
	SourceEmailReply: true,
	SourceSalesCall:  true,
	SourceSocialDM:   true,
	SourceForm:       true,
	SourceManual:     true,
}

// ParseSourceChannel constructs a SourceChannel from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseSourceChannel(s string) (SourceChannel, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "source channel cannot be empty")
	}
	c := SourceChannel(s)
	if !c.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid source channel: "+s)
	}
	return c, nil
}

// IsValid checks if the channel is one of the supported enum values.
func (c SourceChannel) IsValid() bool {
	return validSourceChannels[c]
}

// String returns the string representation of the channel.
func (c SourceChannel) String() string {
	return string(c)
}
