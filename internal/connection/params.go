package connection

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Parameter keys read from the configuration source.
const (
	ParamURL          = "url"
	ParamAuthType     = "auth_type"
	ParamAPIKey       = "api_key"
	ParamUsername     = "username"
	ParamPassword     = "password"
	ParamScope        = "scope"
	ParamClientSecret = "client_secret"
	ParamAccessToken  = "access_token"
	ParamExpiresIn    = "expires_in"
	ParamRefreshToken = "refresh_token"
)

// DefaultExpiresIn is the bearer token lifetime used when expires_in is unset.
const DefaultExpiresIn = 60

// ErrMissingParameter is matched by every MissingParameterError.
var ErrMissingParameter = errors.New("missing connection parameter")

// MissingParameterError reports a required parameter that was not supplied.
type MissingParameterError struct {
	Param string
}

func (e *MissingParameterError) Error() string {
	return "missing connection param: " + e.Param
}

// Is makes errors.Is(err, ErrMissingParameter) hold.
func (e *MissingParameterError) Is(target error) bool {
	return target == ErrMissingParameter
}

// InvalidParameterError reports a parameter whose value cannot be used.
type InvalidParameterError struct {
	Param string
	Value string
	Err   error
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid connection param %s=%q: %v", e.Param, e.Value, e.Err)
}

func (e *InvalidParameterError) Unwrap() error { return e.Err }

// Params is a source of connection parameters.
// *koanf.Koanf satisfies it, as does Args.
type Params interface {
	String(key string) string
}

// Args holds parameters passed explicitly by the caller.
type Args map[string]string

// String returns the value for key or "".
func (a Args) String(key string) string {
	return a[key]
}

type chain []Params

func (c chain) String(key string) string {
	for _, p := range c {
		if p == nil {
			continue
		}
		if v := p.String(key); v != "" {
			return v
		}
	}
	return ""
}

// Chain returns a Params that consults each source in order and returns the
// first non-empty value. Explicit arguments go first, secrets last.
func Chain(sources ...Params) Params {
	return chain(sources)
}

// Settings is the resolved configuration handed to a Dialer.
type Settings struct {
	URL  string
	Auth Auth // nil when no authentication is configured
}

// Resolve reads and validates the parameters required by the selected
// authentication mode.
func Resolve(p Params) (Settings, error) {
	url := strings.TrimSpace(p.String(ParamURL))
	if url == "" {
		return Settings{}, &MissingParameterError{Param: ParamURL}
	}

	auth, err := resolveAuth(p)
	if err != nil {
		return Settings{}, err
	}

	return Settings{URL: url, Auth: auth}, nil
}

func resolveAuth(p Params) (Auth, error) {
	switch AuthType(p.String(ParamAuthType)) {
	case AuthAPIKey:
		key, err := require(p, ParamAPIKey)
		if err != nil {
			return nil, err
		}
		return APIKey{Key: key}, nil

	case AuthOIDCOwner:
		username, err := require(p, ParamUsername)
		if err != nil {
			return nil, err
		}
		password, err := require(p, ParamPassword)
		if err != nil {
			return nil, err
		}
		return OwnerPassword{
			Username: username,
			Password: password,
			Scopes:   splitScope(p.String(ParamScope)),
		}, nil

	case AuthOIDCClient:
		secret, err := require(p, ParamClientSecret)
		if err != nil {
			return nil, err
		}
		return ClientCredentials{
			ClientSecret: secret,
			Scopes:       splitScope(p.String(ParamScope)),
		}, nil

	case AuthOIDCToken:
		token, err := require(p, ParamAccessToken)
		if err != nil {
			return nil, err
		}
		expiresIn := DefaultExpiresIn
		if raw := strings.TrimSpace(p.String(ParamExpiresIn)); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, &InvalidParameterError{Param: ParamExpiresIn, Value: raw, Err: err}
			}
			if n > 0 {
				expiresIn = n
			}
		}
		return BearerToken{
			AccessToken:  token,
			ExpiresIn:    expiresIn,
			RefreshToken: p.String(ParamRefreshToken),
		}, nil

	default:
		return nil, nil
	}
}

func require(p Params, key string) (string, error) {
	v := p.String(key)
	if v == "" {
		return "", &MissingParameterError{Param: key}
	}
	return v, nil
}

// splitScope turns an OAuth scope string ("openid email") into its parts.
func splitScope(scope string) []string {
	fields := strings.Fields(scope)
	if len(fields) == 0 {
		return nil
	}
	return fields
}
