package connection

// AuthType selects how the console authenticates against the remote service.
type AuthType string

// Supported authentication modes. Any other value means no authentication.
const (
	AuthNone       AuthType = ""
	AuthAPIKey     AuthType = "API_KEY"
	AuthOIDCOwner  AuthType = "OIDC_OWNER"
	AuthOIDCClient AuthType = "OIDC_CLIENT"
	AuthOIDCToken  AuthType = "OIDC_TOKEN"
)

// Auth is an authentication descriptor forwarded to the remote client.
type Auth interface {
	Type() AuthType
}

// APIKey authenticates with a static API key.
type APIKey struct {
	Key string
}

// Type implements Auth.
func (APIKey) Type() AuthType { return AuthAPIKey }

// OwnerPassword is the OIDC resource owner password flow.
type OwnerPassword struct {
	Username string
	Password string
	Scopes   []string
}

// Type implements Auth.
func (OwnerPassword) Type() AuthType { return AuthOIDCOwner }

// ClientCredentials is the OIDC client credentials flow.
type ClientCredentials struct {
	ClientSecret string
	Scopes       []string
}

// Type implements Auth.
func (ClientCredentials) Type() AuthType { return AuthOIDCClient }

// BearerToken authenticates with an already issued OIDC token.
type BearerToken struct {
	AccessToken  string
	ExpiresIn    int // seconds
	RefreshToken string
}

// Type implements Auth.
func (BearerToken) Type() AuthType { return AuthOIDCToken }
