// Package gridfs stores media blobs in MongoDB GridFS.
package gridfs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/heartmarshall/forkful-backend/internal/config"
	"github.com/heartmarshall/forkful-backend/internal/domain"
)

const connectTimeout = 10 * time.Second

// Store keeps blobs in a GridFS bucket. Re-uploading a name adds a new
// revision; Open always reads the newest one.
type Store struct {
	client  *mongo.Client
	bucket  *gridfs.Bucket
	baseURL string
}

// Connect dials MongoDB, verifies the connection and opens the bucket.
func Connect(ctx context.Context, cfg config.StorageConfig) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("gridfs.Connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("gridfs.Connect: ping: %w", err)
	}

	bucket, err := gridfs.NewBucket(
		client.Database(cfg.MongoDatabase),
		options.GridFSBucket().SetName(cfg.GridFSBucket),
	)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("gridfs.Connect: bucket: %w", err)
	}

	return &Store{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// Put uploads data under name and returns its public URL.
func (s *Store) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" {
		return "", fmt.Errorf("blob name: %w", domain.ErrValidation)
	}

	opts := options.GridFSUpload().SetMetadata(bson.D{{Key: "contentType", Value: contentType}})
	if _, err := s.bucket.UploadFromStream(name, bytes.NewReader(data), opts); err != nil {
		return "", fmt.Errorf("gridfs.Put %s: %w", name, err)
	}
	return s.baseURL + "/" + name, nil
}

// Open returns a reader over the newest revision of name.
func (s *Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stream, err := s.bucket.OpenDownloadStreamByName(name)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, fmt.Errorf("blob %s: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("gridfs.Open %s: %w", name, err)
	}
	return stream, nil
}

// Ping checks the MongoDB connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
