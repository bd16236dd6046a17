// Package migration upgrades stored post records to the current shape.
//
// A record is first decoded strictly against the current schema. Records that
// do not satisfy it are decoded against the legacy schema, whose differences
// are described by the field-mapping tables below rather than by ad hoc code.
package migration

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"badminton_board_backend/internal/models"
)

var (
	// ErrMalformedPayload is returned when the stored post list cannot be
	// decoded under any known schema. Callers fall back to the seed data.
	ErrMalformedPayload = errors.New("stored post payload is malformed")
)

const (
	SchemaVersionSingleLevel = 1
	SchemaVersionLevelRange  = 2

	CurrentSchemaVersion = SchemaVersionLevelRange
)

// fieldRule fills target from the first truthy source, or from fallback.
type fieldRule struct {
	target   string
	sources  []string
	fallback string
}

var postFieldRules = []fieldRule{
	{target: "status", sources: []string{"status"}, fallback: string(models.PostStatusOpen)},
}

var requirementFieldRules = []fieldRule{
	{target: "minLevel", sources: []string{"minLevel", "level"}, fallback: string(models.DefaultSkillLevel)},
	{target: "maxLevel", sources: []string{"maxLevel", "level"}, fallback: string(models.DefaultSkillLevel)},
}

// requirementKeys are the nested objects every record must carry.
var requirementKeys = []string{"male", "female"}

type schema struct {
	version int
	decode  func(raw json.RawMessage) (models.Post, error)
}

// schemas are tried newest first.
var schemas = []schema{
	{version: SchemaVersionLevelRange, decode: decodeCurrent},
	{version: SchemaVersionSingleLevel, decode: decodeLegacy},
}

// DecodePosts parses a stored post list and migrates every record. Any
// failure is reported as ErrMalformedPayload.
func DecodePosts(payload []byte) ([]models.Post, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(payload, &raws); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if raws == nil {
		// A literal null is not a list.
		return nil, fmt.Errorf("%w: payload is null", ErrMalformedPayload)
	}

	posts := make([]models.Post, 0, len(raws))
	for i, raw := range raws {
		post, _, err := MigrateRecord(raw)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// EncodePosts serialises posts in the current schema.
func EncodePosts(posts []models.Post) ([]byte, error) {
	if posts == nil {
		posts = []models.Post{}
	}
	return json.Marshal(posts)
}

// MigrateRecord decodes a single stored record and reports the schema
// version it was read as.
func MigrateRecord(raw json.RawMessage) (models.Post, int, error) {
	var lastErr error
	for _, s := range schemas {
		post, err := s.decode(raw)
		if err == nil {
			return post, s.version, nil
		}
		lastErr = err
	}
	return models.Post{}, 0, fmt.Errorf("%w: %v", ErrMalformedPayload, lastErr)
}

// decodeCurrent accepts only records that already carry every current field
// and nothing else.
func decodeCurrent(raw json.RawMessage) (models.Post, error) {
	var post models.Post
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&post); err != nil {
		return models.Post{}, err
	}
	if !models.IsValidPostStatus(string(post.Status)) {
		return models.Post{}, fmt.Errorf("status %q not recognised", post.Status)
	}
	for _, req := range []models.PlayerRequirement{post.Male, post.Female} {
		if req.MinLevel == "" || req.MaxLevel == "" {
			return models.Post{}, errors.New("level range missing")
		}
	}
	return post, nil
}

// decodeLegacy rewrites the record through the mapping tables and decodes the
// result leniently. Unknown fields, including the deprecated single level,
// are dropped.
func decodeLegacy(raw json.RawMessage) (models.Post, error) {
	var record map[string]json.RawMessage
	if err := json.Unmarshal(raw, &record); err != nil {
		return models.Post{}, fmt.Errorf("record is not an object: %w", err)
	}
	if record == nil {
		return models.Post{}, errors.New("record is null")
	}
	applyRules(record, postFieldRules)

	for _, key := range requirementKeys {
		var req map[string]json.RawMessage
		if err := json.Unmarshal(record[key], &req); err != nil || req == nil {
			return models.Post{}, fmt.Errorf("%s requirement missing or invalid", key)
		}
		applyRules(req, requirementFieldRules)
		encoded, err := json.Marshal(req)
		if err != nil {
			return models.Post{}, err
		}
		record[key] = encoded
	}

	encoded, err := json.Marshal(record)
	if err != nil {
		return models.Post{}, err
	}
	var post models.Post
	if err := json.Unmarshal(encoded, &post); err != nil {
		return models.Post{}, err
	}
	return post, nil
}

func applyRules(record map[string]json.RawMessage, rules []fieldRule) {
	for _, rule := range rules {
		value, ok := firstTruthy(record, rule.sources)
		if !ok {
			value, _ = json.Marshal(rule.fallback)
		}
		record[rule.target] = value
	}
}

func firstTruthy(record map[string]json.RawMessage, keys []string) (json.RawMessage, bool) {
	for _, k := range keys {
		if v, ok := record[k]; ok && truthy(v) {
			return v, true
		}
	}
	return nil, false
}

// truthy treats null, false, 0 and the empty string as absent.
func truthy(v json.RawMessage) bool {
	switch string(bytes.TrimSpace(v)) {
	case "", "null", "false", "0", `""`:
		return false
	}
	return true
}
