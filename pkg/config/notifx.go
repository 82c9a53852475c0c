package config

type NotifxConfig struct {
	Provider    string `env:"NOTIFX_PROVIDER" envDefault:"console"`
	FromAddress string `env:"NOTIFX_FROM_ADDRESS" envDefault:"noreply@cross-auth.local"`
	FromName    string `env:"NOTIFX_FROM_NAME" envDefault:"Cross Auth"`
	AWSRegion   string `env:"NOTIFX_AWS_REGION" envDefault:"us-east-1"`
}
