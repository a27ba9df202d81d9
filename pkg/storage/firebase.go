package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	firebase "firebase.google.com/go/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// Client wraps the Firebase Cloud Storage default bucket. Uploads are
// append-only (each payload yields a fresh object); removal is explicit via
// Destroy.
type Client struct {
	app    *firebase.App
	bucket string
}

// InitStorage initializes the Firebase application and verifies the default
// bucket is reachable.
func InitStorage(ctx context.Context, credentialsPath, bucket string) (*Client, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("firebase credentials path not provided")
	}
	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("firebase credentials file not found at %s", credentialsPath)
	}

	opt := option.WithCredentialsFile(credentialsPath)
	app, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: bucket}, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase storage client: %w", err)
	}
	if _, err := client.DefaultBucket(); err != nil {
		return nil, fmt.Errorf("error resolving default bucket: %w", err)
	}

	log.Info().Str("bucket", bucket).Msg("Firebase storage client initialized")
	return &Client{app: app, bucket: bucket}, nil
}

// Upload stores an image payload (a base64 data URI or raw base64) as a new
// object and returns its public URL.
func (c *Client) Upload(ctx context.Context, payload string) (string, error) {
	data, ext, err := decodePayload(payload)
	if err != nil {
		return "", err
	}

	client, err := c.app.Storage(ctx)
	if err != nil {
		return "", err
	}
	bucket, err := client.DefaultBucket()
	if err != nil {
		return "", err
	}

	name := uuid.New().String() + ext
	w := bucket.Object(name).NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucket, name), nil
}

// Destroy removes the object a previously returned URL points at.
func (c *Client) Destroy(ctx context.Context, url string) error {
	name := ObjectName(url)
	if name == "" {
		return fmt.Errorf("not a storage URL: %s", url)
	}

	client, err := c.app.Storage(ctx)
	if err != nil {
		return err
	}
	bucket, err := client.DefaultBucket()
	if err != nil {
		return err
	}
	return bucket.Object(name).Delete(ctx)
}

// ObjectName extracts the object name from a storage URL (the last path
// segment).
func ObjectName(url string) string {
	idx := strings.LastIndex(url, "/")
	if idx < 0 || idx == len(url)-1 {
		return ""
	}
	return url[idx+1:]
}

// decodePayload turns a data URI or bare base64 string into raw bytes and a
// file extension inferred from the declared media type.
func decodePayload(payload string) ([]byte, string, error) {
	ext := ".jpg"
	encoded := payload
	if strings.HasPrefix(payload, "data:") {
		parts := strings.SplitN(payload, ",", 2)
		if len(parts) != 2 {
			return nil, "", fmt.Errorf("malformed data URI")
		}
		header := parts[0]
		encoded = parts[1]
		if strings.Contains(header, "image/png") {
			ext = ".png"
		} else if strings.Contains(header, "image/gif") {
			ext = ".gif"
		} else if strings.Contains(header, "image/webp") {
			ext = ".webp"
		}
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("invalid base64 payload: %w", err)
	}
	return data, ext, nil
}
