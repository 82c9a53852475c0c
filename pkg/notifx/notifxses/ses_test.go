package notifxses_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/cauth/pkg/errx"
	"github.com/Abraxas-365/cauth/pkg/notifx"
	"github.com/Abraxas-365/cauth/pkg/notifx/notifxses"
)

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("m-1")}, nil
}

func TestSESProvider_SendEmail(t *testing.T) {
	api := &fakeSES{}
	p := notifxses.NewSESProvider(api, "noreply@example.com")

	err := p.SendEmail(context.Background(), notifx.EmailMessage{
		To:       []string{"a@example.com"},
		Subject:  "Reset",
		TextBody: "code",
	}, notifx.WithConfigID("transactional"), notifx.WithTags(map[string]string{"purpose": "password_reset"}))
	require.NoError(t, err)

	require.NotNil(t, api.input)
	assert.Equal(t, "noreply@example.com", aws.ToString(api.input.Source))
	assert.Equal(t, "transactional", aws.ToString(api.input.ConfigurationSetName))
	require.Len(t, api.input.Tags, 1)
	assert.Equal(t, "purpose", aws.ToString(api.input.Tags[0].Name))
	assert.Equal(t, "code", aws.ToString(api.input.Message.Body.Text.Data))
}

func TestSESProvider_WrapsFailures(t *testing.T) {
	p := notifxses.NewSESProvider(&fakeSES{err: errors.New("throttled")}, "noreply@example.com")

	err := p.SendEmail(context.Background(), notifx.EmailMessage{To: []string{"a@example.com"}, Subject: "x"})
	assert.True(t, errx.HasCode(err, notifxses.ErrSendFailed))
	assert.True(t, errx.IsType(err, errx.TypeExternal))
}
