// Package reembed provides functionality for reembedding the stored section
// documents with a new or updated embedding model.
//
// This package supports batch processing of documents, progress tracking,
// retry logic with exponential backoff, and optional vector normalization.
// Content fingerprints are refreshed together with the vectors so that
// stored embeddings always describe the stored text.
package reembed
