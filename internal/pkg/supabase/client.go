package supabase

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/postgrest-go"
	storage_go "github.com/supabase-community/storage-go"

	"github.com/kbahtiar/folio/internal/config"
)

// Client is the single channel to the hosted backend: row CRUD and RPC via
// PostgREST, bucket objects via the storage API, password auth via GoTrue.
type Client struct {
	Rest    *postgrest.Client
	Auth    gotrue.Client
	Storage *storage_go.Client

	baseURL string

	// rpcMu serializes RPC calls: the postgrest client reports RPC failures
	// through its shared ClientError field, which must be cleared and read
	// around each invocation without racing other handlers.
	rpcMu sync.Mutex
}

// extractProjectRef extracts just the project reference ID from a Supabase URL
// From: akrqbuajqkirdekonpzy.supabase.co
// To: akrqbuajqkirdekonpzy
func extractProjectRef(url string) string {
	url = strings.TrimPrefix(url, "https://")
	url = strings.TrimPrefix(url, "http://")

	parts := strings.Split(url, ".")
	return parts[0]
}

// New builds the gateway from configuration. The service key is used for the
// data plane; end-user credentials only ever pass through the auth client.
func New(cfg config.SupabaseConfig) (*Client, error) {
	if cfg.URL == "" || cfg.ServiceKey == "" {
		return nil, fmt.Errorf("supabase URL and service key are required")
	}
	baseURL := strings.TrimSuffix(cfg.URL, "/")

	headers := map[string]string{
		"apikey":        cfg.ServiceKey,
		"Authorization": "Bearer " + cfg.ServiceKey,
	}

	rest := postgrest.NewClient(baseURL+"/rest/v1", "", headers)
	if rest.ClientError != nil {
		return nil, fmt.Errorf("failed to create postgrest client: %w", rest.ClientError)
	}

	// The custom URL keeps self-hosted instances (and test stubs) working.
	auth := gotrue.New(extractProjectRef(baseURL), cfg.ServiceKey).
		WithCustomGoTrueURL(baseURL + "/auth/v1")

	storage := storage_go.NewClient(baseURL+"/storage/v1", cfg.ServiceKey, nil)

	return &Client{
		Rest:    rest,
		Auth:    auth,
		Storage: storage,
		baseURL: baseURL,
	}, nil
}

// SignIn validates the owner's credentials and returns the upstream session.
func (c *Client) SignIn(email, password string) (*types.Session, error) {
	resp, err := c.Auth.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	return &resp.Session, nil
}

// SignUp registers a new auth user and returns its id.
func (c *Client) SignUp(email, password string) (string, error) {
	resp, err := c.Auth.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return "", fmt.Errorf("signup failed: %w", err)
	}
	return resp.ID.String(), nil
}

// SignOut revokes the upstream session for the given access token.
func (c *Client) SignOut(accessToken string) error {
	return c.Auth.WithToken(accessToken).Logout()
}

// Rpc invokes a named procedure. Only used for the atomic counters, so that
// concurrent increments never turn into lost read-modify-write updates.
func (c *Client) Rpc(name string, body any) (string, error) {
	c.rpcMu.Lock()
	defer c.rpcMu.Unlock()

	// The library never clears ClientError on success, so a stale failure
	// would otherwise fail every call after the first bad one.
	c.Rest.ClientError = nil
	result := c.Rest.Rpc(name, "", body)
	if c.Rest.ClientError != nil {
		return "", fmt.Errorf("rpc %s failed: %w", name, c.Rest.ClientError)
	}
	return result, nil
}

// Upload stores an object and returns the bucket-relative path that callers
// persist in rows.
func (c *Client) Upload(bucket, path string, r io.Reader) (string, error) {
	if _, err := c.Storage.UploadFile(bucket, path, r); err != nil {
		return "", fmt.Errorf("upload to %s/%s failed: %w", bucket, path, err)
	}
	return path, nil
}

// Remove deletes an object. Callers treat failures as best-effort cleanup.
func (c *Client) Remove(bucket, path string) error {
	if _, err := c.Storage.RemoveFile(bucket, []string{path}); err != nil {
		return fmt.Errorf("remove %s/%s failed: %w", bucket, path, err)
	}
	return nil
}

// PublicURL reconstructs the public object URL from the configured base, the
// bucket, and a stored relative path. Rows never hold absolute URLs, so a
// storage base change needs no data migration.
func (c *Client) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, bucket, path)
}

// IsNotFound reports whether an error is PostgREST's "no (or multiple) rows
// for a single-object request". Editors treat it as empty defaults.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "PGRST116") || strings.Contains(msg, "0 rows")
}
