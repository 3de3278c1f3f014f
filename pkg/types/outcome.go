// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// FetchStatus is the typed outcome of a collaborator call. The cascade
// branches on it instead of catching errors.
type FetchStatus string

const (
	FetchOK          FetchStatus = "ok"
	FetchEmpty       FetchStatus = "empty"
	FetchNotFound    FetchStatus = "not_found"
	FetchRateLimited FetchStatus = "rate_limited"
	FetchFailed      FetchStatus = "failed"
)

// Transient reports whether the status reflects an infrastructure problem
// rather than an answer from the remote side.
func (s FetchStatus) Transient() bool {
	return s == FetchRateLimited || s == FetchFailed
}

// SearchOutcome is the result of one repository search query.
type SearchOutcome struct {
	Status FetchStatus
	Repos  []CandidateRepository
	Err    error
}

// ReadmeOutcome is the result of a README fetch. Text is decoded plain text.
type ReadmeOutcome struct {
	Status FetchStatus
	Text   string
	Err    error
}

// MetadataOutcome is the result of a repository metadata lookup.
type MetadataOutcome struct {
	Status   FetchStatus
	Metadata RepoMetadata
	Err      error
}
