package issuanceinfra_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/cauth/pkg/iam/issuance/issuanceinfra"
	"github.com/Abraxas-365/cauth/pkg/iam/otp"
	"github.com/Abraxas-365/cauth/pkg/notifx"
)

type capture struct {
	msgs []notifx.EmailMessage
	tags []map[string]string
	err  error
}

func (c *capture) SendEmail(_ context.Context, msg notifx.EmailMessage, opts ...notifx.Option) error {
	c.msgs = append(c.msgs, msg)
	c.tags = append(c.tags, notifx.ApplyOptions(opts).Tags)
	return c.err
}

func TestNotifxCodeDelivery(t *testing.T) {
	sender := &capture{}
	delivery, err := issuanceinfra.NewNotifxCodeDelivery(notifx.NewClient(sender, "no-reply@cauth.test", "Cross Auth"))
	require.NoError(t, err)

	code := otp.Code{Value: "Ab12Cd", Purpose: otp.PurposePasswordReset, ExpiresAt: time.Now().Add(10 * time.Minute)}
	require.NoError(t, delivery.SendResetCode(context.Background(), "bob@example.com", code))

	require.Len(t, sender.msgs, 1)
	msg := sender.msgs[0]
	assert.Equal(t, []string{"bob@example.com"}, msg.To)
	assert.Equal(t, "Cross Auth <no-reply@cauth.test>", msg.From)
	assert.Contains(t, msg.TextBody, "Ab12Cd")
	assert.Contains(t, msg.TextBody, "10 minutes")
	assert.Equal(t, "password_reset", sender.tags[0]["purpose"])
}

func TestNotifxCodeDelivery_PropagatesFailure(t *testing.T) {
	sender := &capture{err: errors.New("smtp down")}
	delivery, err := issuanceinfra.NewNotifxCodeDelivery(notifx.NewClient(sender, "no-reply@cauth.test", ""))
	require.NoError(t, err)

	err = delivery.SendResetCode(context.Background(), "bob@example.com", otp.Code{Value: "x", ExpiresAt: time.Now()})
	assert.Error(t, err)
}
