package env

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Owned-Token Source. The chain side of the house resolves a wallet into
// token identifiers, all we ever consume from it is an image URL and the
// occasional attribute used as a status label.

type TokenAttribute struct {
	TraitType string `json:"trait_type"` // Attribute Name
	Value     string `json:"value"`      // Attribute Value
}

type TokenMetadata struct {
	Name       string           `json:"name"`       // Token Display Name
	Image      string           `json:"image"`      // Token Image URL
	Attributes []TokenAttribute `json:"attributes"` // Token Attributes
}

var tokenClient = &http.Client{Timeout: 10 * time.Second}

// Fetch Metadata for a Token from the Configured Resolver
func ResolveToken(id string) (*TokenMetadata, error) {
	if TOKEN_METADATA == "" {
		return nil, fmt.Errorf("token resolver is not configured")
	}
	endpoint := strings.TrimSuffix(TOKEN_METADATA, "/") + "/" + url.PathEscape(id)
	res, err := tokenClient.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("token metadata fetch: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("token metadata fetch: status %d", res.StatusCode)
	}

	var meta TokenMetadata
	body, err := io.ReadAll(io.LimitReader(res.Body, MAX_BODY_BYTES))
	if err != nil {
		return nil, fmt.Errorf("token metadata read: %w", err)
	}
	if err := json.Unmarshal(body, &meta); err != nil {
		return nil, fmt.Errorf("token metadata parse: %w", err)
	}
	if meta.Image == "" {
		return nil, fmt.Errorf("token metadata has no image")
	}
	return &meta, nil
}

// Lookup an Attribute by Trait Name, empty when absent
func (m *TokenMetadata) Attribute(trait string) string {
	for _, a := range m.Attributes {
		if strings.EqualFold(a.TraitType, trait) {
			return a.Value
		}
	}
	return ""
}
