// Package seed decodes data files (JSON, YAML or TOML) into the generic
// tree values accepted by Database.Import, and user files into identity
// store records.
package seed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/rtdb/auth"
)

// ErrUnsupportedFormat is returned for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported seed format")

// LoadFile reads a data file whose format follows its extension.
func LoadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	out, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("failed to decode seed file %s: %w", path, err)
	}
	return out, nil
}

// Decode parses data in the format named by ext (".json", ".yaml", ".yml"
// or ".toml"). The top level must be a mapping; empty input yields an
// empty mapping. JSON numbers are kept as json.Number so integers stay
// exact.
func Decode(data []byte, ext string) (map[string]any, error) {
	out := map[string]any{}
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "json":
		if len(bytes.TrimSpace(data)) == 0 {
			return out, nil
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&out); err != nil {
			return nil, err
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, err
		}
		if out == nil {
			out = map[string]any{}
		}
	case "toml":
		if err := toml.Unmarshal(data, &out); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return out, nil
}

// Merge combines several data files; later files replace root keys of
// earlier ones.
func Merge(files ...map[string]any) map[string]any {
	out := map[string]any{}
	for _, f := range files {
		for k, v := range f {
			out[k] = v
		}
	}
	return out
}

// LoadUsers reads user records from a file holding either a list of records
// or a mapping from uid to record.
func LoadUsers(path string) ([]auth.UserRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read user file %s: %w", path, err)
	}
	users, err := DecodeUsers(raw, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("failed to decode user file %s: %w", path, err)
	}
	return users, nil
}

// DecodeUsers is LoadUsers for in-memory data.
func DecodeUsers(data []byte, ext string) ([]auth.UserRecord, error) {
	var generic any
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "json":
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, nil
		}
		if err := json.Unmarshal(data, &generic); err != nil {
			return nil, err
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return nil, err
		}
	case "toml":
		// TOML documents are tables; records live under a users array.
		var doc map[string]any
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		generic = doc["users"]
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	if m, ok := generic.(map[string]any); ok {
		if list, ok := m["users"].([]any); ok && len(m) == 1 {
			generic = list
		} else {
			generic = recordsByUID(m)
		}
	}

	var users []auth.UserRecord
	if generic == nil {
		return users, nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &users,
		TagName:     "mapstructure",
		ErrorUnused: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}
	if err := decoder.Decode(generic); err != nil {
		return nil, err
	}
	return users, nil
}

// recordsByUID turns {uid: record} into a list ordered by uid, filling in
// the uid of records that omit it.
func recordsByUID(m map[string]any) []any {
	uids := make([]string, 0, len(m))
	for uid := range m {
		uids = append(uids, uid)
	}
	sort.Strings(uids)

	out := make([]any, 0, len(m))
	for _, uid := range uids {
		rec, ok := m[uid].(map[string]any)
		if !ok {
			out = append(out, m[uid])
			continue
		}
		cp := make(map[string]any, len(rec)+1)
		for k, v := range rec {
			cp[k] = v
		}
		if _, ok := cp["uid"]; !ok {
			cp["uid"] = uid
		}
		out = append(out, cp)
	}
	return out
}
