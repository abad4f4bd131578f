package appconf

// Environment identifies the operating environment the service runs in.
type Environment int

const (
	Development Environment = iota
	Test
	Production
)

func (e Environment) String() string {
	switch e {
	case Test:
		return "test"
	case Production:
		return "production"
	default:
		return "development"
	}
}

// EnvFlagToEnvironment maps the -env flag value to an Environment,
// defaulting to Development for anything unrecognized.
func EnvFlagToEnvironment(flag string) Environment {
	switch flag {
	case "test":
		return Test
	case "production":
		return Production
	default:
		return Development
	}
}

// Config holds the service-level configuration settings: the listen port,
// operating environment, accepted API keys, and the per-key request rate
// limit (requests per second; zero or negative disables limiting).
type Config struct {
	Port      int
	Env       Environment
	ApiKeys   []string
	RateLimit int
}
