package config

type Config struct {
	Environment Environment
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`
	DatabaseURL string `env:"DATABASE_URL"`
	RedisAddr   string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`

	JWT     JWT     `envPrefix:"JWT_"`
	Gateway Gateway `envPrefix:"GATEWAY_"`
	Google  Google  `envPrefix:"GOOGLE_"`
	Email   Email   `envPrefix:"EMAIL_"`
}

// Gateway holds credentials for the card payment provider. The
// publishable key is safe to hand to the frontend.
type Gateway struct {
	BaseApiURL     string `env:"BASE_API_URL"`
	SecretKey      string `env:"SECRET_KEY"`
	PublishableKey string `env:"PUBLISHABLE_KEY"`
	WebhookSecret  string `env:"WEBHOOK_SECRET"`
}

// Google holds the OAuth client id sign-in credentials are verified
// against.
type Google struct {
	ClientID     string `env:"CLIENT_ID"`
	TokenInfoURL string `env:"TOKENINFO_URL" envDefault:"https://oauth2.googleapis.com/tokeninfo"`
}

type JWT struct {
	Secret    string `env:"SECRET" envDefault:"your_super_secret"`
	ExpiresIn string `env:"EXPIRES_IN" envDefault:"168h"`
}

type Email struct {
	Host     string `env:"HOST"`
	Port     string `env:"PORT" envDefault:"587"`
	Username string `env:"USER"`
	Password string `env:"PASS"`
	From     string `env:"FROM"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
