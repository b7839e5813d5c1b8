// Package email sends lead notifications to the operator and follow-up mail
// to visitors. All sending is best effort and event driven.
package email

import (
	"context"

	"hashlife_backend/internal/chat/domain"
)

// Sender delivers the intake engine's outbound email.
type Sender interface {
	// SendLeadNotification notifies the operator about a freshly captured lead.
	SendLeadNotification(ctx context.Context, toEmail string, rec domain.LeadRecord, score int, quality string) error

	// SendFollowUpEmail reaches out to a visitor some time after their quote
	// request, inviting them to book a call.
	SendFollowUpEmail(ctx context.Context, toEmail, firstName, insuranceType string) error
}
