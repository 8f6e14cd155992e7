// Copyright 2026 Chemtrace Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package sdsvault

import (
	"io"
	"log/slog"

	"github.com/chemtrace/sdsvault/ai"
	"github.com/chemtrace/sdsvault/ai/openai"
	"github.com/chemtrace/sdsvault/ingestion"
	"github.com/chemtrace/sdsvault/reembed"
	"github.com/chemtrace/sdsvault/retrieval"
	"github.com/chemtrace/sdsvault/storage"
	"github.com/chemtrace/sdsvault/storage/badger"
)

// Database bundles the storage backend, the document repository, and the
// embedder behind a single handle.
type Database struct {
	backend  *badger.Backend
	docRepo  storage.DocumentRepository
	embedder ai.Embedder
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	embedder ai.Embedder
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithEmbedder supplies a pre-built embedder instead of constructing one
// from the AI configuration. Intended for tests.
func WithEmbedder(embedder ai.Embedder) DatabaseOption {
	return func(o *databaseOptions) {
		o.embedder = embedder
	}
}

// NewDatabase opens a document database at the given path, creating it if
// necessary.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	docRepo := badger.NewDocumentRepository(backend)

	embedder := options.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			docRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Database{
		backend:  backend,
		docRepo:  docRepo,
		embedder: embedder,
		logger:   slog.Default(),
	}, nil
}

// Close releases the repository and the underlying storage backend.
func (db *Database) Close() error {
	if err := db.docRepo.Close(); err != nil {
		db.logger.Error("error closing document repository", "err", err)
		return err
	}
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// DocumentRepository returns the underlying document repository.
func (db *Database) DocumentRepository() storage.DocumentRepository {
	return db.docRepo
}

// Embedder returns the configured embedder.
func (db *Database) Embedder() ai.Embedder {
	return db.embedder
}

// NewRetriever creates a retriever over this database.
func (db *Database) NewRetriever(opts ...retrieval.Option) (*retrieval.Retriever, error) {
	return retrieval.NewRetriever(db.docRepo, db.embedder, opts...)
}

// NewIngestionPipeline creates an ingestion pipeline over this database.
func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.docRepo, db.embedder, opts...)
}

// NewReembedder creates a reembedder over this database.
// progress: where to write progress output (typically os.Stderr)
func (db *Database) NewReembedder(config *reembed.Config, progress io.Writer) *reembed.Reembedder {
	return reembed.NewReembedder(db.docRepo, db.embedder, config, progress)
}
