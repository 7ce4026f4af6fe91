package email

// Config holds outbound email settings.
// The Postmark tokens are only read when the postmark driver is selected;
// DevDir is where the dev sender writes rendered messages.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL" envDefault:"no-reply@dashboard360.local"`
	SupportEmail         string `env:"SUPPORT_EMAIL" envDefault:"support@dashboard360.local"`
	DevDir               string `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"`
}
