package issuanceinfra

import (
	"context"
	"math"
	"time"

	"github.com/Abraxas-365/cauth/pkg/iam/issuance"
	"github.com/Abraxas-365/cauth/pkg/iam/otp"
	"github.com/Abraxas-365/cauth/pkg/notifx"
)

const resetTemplate = "reset-password"

const resetBody = `Hello,

Your password reset code is {{.Code}}.
It expires in {{.Minutes}} minutes and can be used once.

If you did not ask for a reset you can ignore this email.
`

// NotifxCodeDelivery sends reset codes by email through a notifx client.
type NotifxCodeDelivery struct {
	client *notifx.Client
	now    func() time.Time
}

func NewNotifxCodeDelivery(client *notifx.Client) (*NotifxCodeDelivery, error) {
	if err := client.RegisterTemplate(resetTemplate, resetBody); err != nil {
		return nil, err
	}
	return &NotifxCodeDelivery{client: client, now: time.Now}, nil
}

var _ issuance.CodeDelivery = (*NotifxCodeDelivery)(nil)

func (d *NotifxCodeDelivery) SendResetCode(ctx context.Context, email string, code otp.Code) error {
	minutes := int(math.Ceil(code.ExpiresAt.Sub(d.now()).Minutes()))
	if minutes < 1 {
		minutes = 1
	}

	data := struct {
		Code    string
		Minutes int
	}{Code: code.Value, Minutes: minutes}

	return d.client.SendTemplatedEmail(ctx, resetTemplate, data,
		notifx.EmailMessage{
			To:      []string{email},
			Subject: "Your password reset code",
		},
		notifx.WithTags(map[string]string{"purpose": "password_reset"}),
	)
}
