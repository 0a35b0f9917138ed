// Package weaviate adapts the official Weaviate Go client to connection.Client.
package weaviate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	wv "github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/leapstack-labs/vconsole/internal/connection"
)

// Client implements connection.Client on top of a Weaviate client.
type Client struct {
	wv *wv.Client
}

// Dial is a connection.Dialer for Weaviate.
func Dial(_ context.Context, s connection.Settings) (connection.Client, error) {
	cfg, err := configFor(s)
	if err != nil {
		return nil, err
	}

	c, err := wv.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create weaviate client: %w", err)
	}
	return &Client{wv: c}, nil
}

func configFor(s connection.Settings) (wv.Config, error) {
	u, err := url.Parse(s.URL)
	if err != nil {
		return wv.Config{}, fmt.Errorf("parse url %q: %w", s.URL, err)
	}
	if u.Host == "" {
		return wv.Config{}, fmt.Errorf("url %q has no host", s.URL)
	}

	scheme := u.Scheme
	if scheme == "" {
		scheme = "http"
	}

	cfg := wv.Config{
		Host:   u.Host,
		Scheme: scheme,
	}
	if s.Auth != nil {
		cfg.AuthConfig = authConfig(s.Auth)
	}
	return cfg, nil
}

func authConfig(a connection.Auth) auth.Config {
	switch a := a.(type) {
	case connection.APIKey:
		return auth.ApiKey{Value: a.Key}
	case connection.OwnerPassword:
		return auth.ResourceOwnerPasswordFlow{
			Username: a.Username,
			Password: a.Password,
			Scopes:   a.Scopes,
		}
	case connection.ClientCredentials:
		return auth.ClientCredentials{
			ClientSecret: a.ClientSecret,
			Scopes:       a.Scopes,
		}
	case connection.BearerToken:
		return auth.BearerToken{
			AccessToken:  a.AccessToken,
			ExpiresIn:    uint(a.ExpiresIn),
			RefreshToken: a.RefreshToken,
		}
	default:
		return nil
	}
}

// IsReady implements connection.Client.
func (c *Client) IsReady(ctx context.Context) (bool, error) {
	return c.wv.Misc().ReadyChecker().Do(ctx)
}

// Schema implements connection.Client.
func (c *Client) Schema() connection.SchemaAPI { return schemaAPI{c.wv} }

// Query implements connection.Client.
func (c *Client) Query() connection.QueryAPI { return queryAPI{c.wv} }

// DataObject implements connection.Client.
func (c *Client) DataObject() connection.DataObjectAPI { return dataAPI{c.wv} }

type schemaAPI struct{ wv *wv.Client }

func (s schemaAPI) Get(ctx context.Context) (json.RawMessage, error) {
	dump, err := s.wv.Schema().Getter().Do(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(dump)
}

func (s schemaAPI) Create(ctx context.Context, schema json.RawMessage) error {
	classes, err := decodeClasses(schema)
	if err != nil {
		return err
	}
	for _, class := range classes {
		if err := s.wv.Schema().ClassCreator().WithClass(class).Do(ctx); err != nil {
			return fmt.Errorf("create class %s: %w", class.Class, err)
		}
	}
	return nil
}

// decodeClasses accepts a whole schema ({"classes": [...]}) or one class.
func decodeClasses(raw json.RawMessage) ([]*models.Class, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("schema must be a JSON object: %w", err)
	}

	if list, ok := probe["classes"]; ok {
		var classes []*models.Class
		if err := json.Unmarshal(list, &classes); err != nil {
			return nil, fmt.Errorf("decode classes: %w", err)
		}
		if len(classes) == 0 {
			return nil, errors.New("schema has no classes")
		}
		return classes, nil
	}

	var class models.Class
	if err := json.Unmarshal(raw, &class); err != nil {
		return nil, fmt.Errorf("decode class: %w", err)
	}
	if strings.TrimSpace(class.Class) == "" {
		return nil, errors.New(`schema needs a "classes" list or a "class" name`)
	}
	return []*models.Class{&class}, nil
}

type queryAPI struct{ wv *wv.Client }

func (q queryAPI) Raw(ctx context.Context, query string) (json.RawMessage, error) {
	resp, err := q.wv.GraphQL().Raw().WithQuery(query).Do(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(resp)
}

type dataAPI struct{ wv *wv.Client }

func (d dataAPI) Create(ctx context.Context, properties map[string]any, className, consistency string) (string, error) {
	created, err := d.wv.Data().Creator().
		WithClassName(className).
		WithProperties(properties).
		WithConsistencyLevel(consistency).
		Do(ctx)
	if err != nil {
		return "", err
	}
	if created == nil || created.Object == nil {
		return "", errors.New("weaviate returned no object")
	}
	return string(created.Object.ID), nil
}

func (d dataAPI) List(ctx context.Context, className string, limit int) (json.RawMessage, error) {
	objects, err := d.wv.Data().ObjectsGetter().
		WithClassName(className).
		WithLimit(limit).
		Do(ctx)
	if err != nil {
		return nil, err
	}
	if objects == nil {
		objects = []*models.Object{}
	}
	return json.Marshal(map[string]any{"objects": objects})
}
