package fusion

import (
	"encoding/json"
	"io"
	"math"
	"strconv"

	"github.com/clipsift/clipsift/internal/errors"
)

// Input validation lives at the deserialization boundary so the fusion
// algorithms can assume well-formed matches. Anything rejected here
// carries the ERR_101_INVALID_INPUT code.

// DecodeTimestampMatches reads a JSON array of timestamped matches and
// validates every entry.
func DecodeTimestampMatches(r io.Reader) ([]TimestampMatch, error) {
	var matches []TimestampMatch
	if err := json.NewDecoder(r).Decode(&matches); err != nil {
		return nil, errors.InvalidInput("decode timestamp matches", err)
	}
	for i, m := range matches {
		if err := ValidateTimestampMatch(m); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err).
				WithDetail("index", strconv.Itoa(i))
		}
	}
	return matches, nil
}

// ValidateTimestampMatch checks the required-field contract for a single
// timestamped match.
func ValidateTimestampMatch(m TimestampMatch) error {
	if math.IsNaN(m.Timestamp) || math.IsInf(m.Timestamp, 0) {
		return errors.Newf(errors.ErrCodeInvalidInput, "timestamp is not finite")
	}
	if math.IsNaN(m.Similarity) || m.Similarity < 0 || m.Similarity > 1 {
		return errors.Newf(errors.ErrCodeInvalidInput, "similarity %v outside [0,1]", m.Similarity)
	}
	switch m.Modality {
	case ModalityVisual, ModalityAudio, ModalitySpeech:
		return nil
	default:
		return errors.Newf(errors.ErrCodeInvalidInput, "unknown modality %q", m.Modality)
	}
}

// DecodeSearchResults reads a JSON array of file-level results and
// validates every entry.
func DecodeSearchResults(r io.Reader) ([]SearchResult, error) {
	var results []SearchResult
	if err := json.NewDecoder(r).Decode(&results); err != nil {
		return nil, errors.InvalidInput("decode search results", err)
	}
	for i, sr := range results {
		if err := ValidateSearchResult(sr); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err).
				WithDetail("index", strconv.Itoa(i))
		}
	}
	return results, nil
}

// ValidateSearchResult checks the required-field contract for a single
// file-level result.
func ValidateSearchResult(r SearchResult) error {
	if r.FileID == "" {
		return errors.Newf(errors.ErrCodeInvalidInput, "file_id is required")
	}
	if math.IsNaN(r.Similarity) || r.Similarity < 0 || r.Similarity > 1 {
		return errors.Newf(errors.ErrCodeInvalidInput, "similarity %v outside [0,1]", r.Similarity)
	}
	switch r.Modality {
	case FileModalityText, FileModalityImage, FileModalityAudio, FileModalityVideo:
		return nil
	default:
		return errors.Newf(errors.ErrCodeInvalidInput, "unknown modality %q", r.Modality)
	}
}
