package notifx

import (
	"context"
	"fmt"
	"strings"
)

// EmailMessage is a plain text email. From is filled by the Client when
// empty.
type EmailMessage struct {
	From     string   `json:"from"`
	To       []string `json:"to"`
	ReplyTo  string   `json:"reply_to,omitempty"`
	Subject  string   `json:"subject"`
	TextBody string   `json:"text_body"`
}

// EmailSender delivers one message. Providers live in sub packages.
type EmailSender interface {
	SendEmail(ctx context.Context, msg EmailMessage, opts ...Option) error
}

type SendOptions struct {
	Tags     map[string]string
	ConfigID string
}

type Option func(*SendOptions)

// WithTags attaches provider metadata, e.g. the purpose of the message.
func WithTags(tags map[string]string) Option {
	return func(o *SendOptions) { o.Tags = tags }
}

// WithConfigID selects a provider configuration set.
func WithConfigID(id string) Option {
	return func(o *SendOptions) { o.ConfigID = id }
}

func ApplyOptions(opts []Option) SendOptions {
	var so SendOptions
	for _, o := range opts {
		o(&so)
	}
	return so
}

// Client validates messages, renders templates and forwards to a
// provider.
type Client struct {
	provider  EmailSender
	templates *TemplateRegistry
	from      string
}

func NewClient(provider EmailSender, fromAddress, fromName string) *Client {
	from := fromAddress
	if fromName != "" && fromAddress != "" {
		from = fmt.Sprintf("%s <%s>", fromName, fromAddress)
	}
	return &Client{
		provider:  provider,
		templates: NewTemplateRegistry(),
		from:      from,
	}
}

func (c *Client) SendEmail(ctx context.Context, msg EmailMessage, opts ...Option) error {
	if len(msg.To) == 0 {
		return notifxErrors.New(ErrInvalidMessage).WithDetail("reason", "no recipients")
	}
	for _, to := range msg.To {
		if !strings.Contains(to, "@") {
			return notifxErrors.New(ErrInvalidMessage).WithDetail("reason", "malformed recipient")
		}
	}
	if strings.TrimSpace(msg.Subject) == "" {
		return notifxErrors.New(ErrInvalidMessage).WithDetail("reason", "empty subject")
	}
	if msg.From == "" {
		msg.From = c.from
	}
	return c.provider.SendEmail(ctx, msg, opts...)
}

func (c *Client) RegisterTemplate(name, tmpl string) error {
	return c.templates.Register(name, tmpl)
}

// SendTemplatedEmail renders the named template into the text body.
func (c *Client) SendTemplatedEmail(ctx context.Context, templateName string, data interface{}, msg EmailMessage, opts ...Option) error {
	body, err := c.templates.Render(templateName, data)
	if err != nil {
		return err
	}
	msg.TextBody = body
	return c.SendEmail(ctx, msg, opts...)
}
