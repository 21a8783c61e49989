package client

// Config is a tenant "brain": per-client behaviour stored in the
// conversation store and fetched by client id on every request.
type Config struct {
	ClientID            string   `json:"client_id"`
	SystemPrompt        string   `json:"system_prompt"`
	WelcomeMessage      string   `json:"welcome_message"`
	OnboardingQuestions []string `json:"onboarding_questions,omitempty"`
	AllowedOrigins      []string `json:"allowed_origins,omitempty"`
	LeadTargetEmail     string   `json:"lead_target_email,omitempty"`
}

const (
	defaultSystemPrompt   = "אתה עוזר כללי ועונה בעברית בצורה נעימה."
	defaultWelcomeMessage = "היי! אני העוזר החכם שלך לכל מה שתצטרך"
)

// Default returns the fallback brain used when a client id is unknown.
// Unknown clients still get a working assistant, never an error.
func Default(clientID string) Config {
	return Config{
		ClientID:       clientID,
		SystemPrompt:   defaultSystemPrompt,
		WelcomeMessage: defaultWelcomeMessage,
	}
}

// Normalize fills empty fields from the defaults so partially configured
// brains behave like fully configured ones.
func (c Config) Normalize() Config {
	if c.SystemPrompt == "" {
		c.SystemPrompt = defaultSystemPrompt
	}
	if c.WelcomeMessage == "" {
		c.WelcomeMessage = defaultWelcomeMessage
	}
	return c
}

// Seed returns the demo tenants loaded into the in-memory store when no
// external store is configured.
func Seed() []Config {
	return []Config{
		{
			ClientID:       "shira_tours",
			SystemPrompt:   "אתה עוזר אישי בסוכנות תיירות. ענה בעברית ונסה להציע טיולים ליוון, תאילנד ואיטליה.",
			WelcomeMessage: "היי! כאן שירה תיירות, איך אפשר לעזור?",
			OnboardingQuestions: []string{
				"לאן תרצו לטוס?",
				"באילו תאריכים?",
			},
			AllowedOrigins:  []string{"https://shira-tours.example.com"},
			LeadTargetEmail: "leads@shira-tours.example.com",
		},
		Default("default"),
	}
}
