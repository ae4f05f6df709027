// internal/catalog/auth.go
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminLogin exchanges credentials for the catalog's session token, taken from
// the session cookie it sets (or a "token" field when it sends one instead).
func (c *Client) AdminLogin(ctx context.Context, creds Credentials) (string, error) {
	buf, err := json.Marshal(creds)
	if err != nil {
		return "", err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/adminlogin", nil, bytes.NewReader(buf), "application/json")
	if err != nil {
		return "", err
	}

	resp, data, err := c.send(req)
	if err != nil {
		return "", err
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == c.cookieName && cookie.Value != "" {
			return cookie.Value, nil
		}
	}

	var body struct {
		Token string `json:"token"`
	}
	if json.Unmarshal(data, &body) == nil && body.Token != "" {
		return body.Token, nil
	}
	return "", ErrNoSession
}

func (c *Client) AdminLogout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/adminlogout", nil, struct{}{}, nil)
}
