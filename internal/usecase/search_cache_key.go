package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"jobhub/internal/search"
)

const (
	jobsSearchPrefix       = "jobs:search:"
	jobsLockPrefix         = "jobs:lock:"
	JobsSearchCachePattern = jobsSearchPrefix + "*"
)

type jobSearchCacheKeyInput struct {
	Query    string `json:"q"`
	Location string `json:"location"`
	Type     string `json:"type"`
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`
}

func normalizeSearchValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

func JobsSearchCacheKey(params JobListParams) string {
	in := jobSearchCacheKeyInput{
		Query:    search.Normalize(params.Query),
		Location: normalizeSearchValue(params.Location),
		Type:     normalizeSearchValue(params.Type),
		Limit:    params.Limit,
		Offset:   params.Offset,
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return jobsSearchPrefix + hex.EncodeToString(sum[:])
}

func JobsSearchLockKey(searchKey string) string {
	searchKey = strings.TrimSpace(searchKey)
	return jobsLockPrefix + strings.TrimPrefix(searchKey, jobsSearchPrefix)
}
