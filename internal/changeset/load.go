package changeset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies a ChangeSet encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	// FormatResponse is free classifier text with an embedded JSON object.
	FormatResponse Format = "response"
)

// ParseError reports a ChangeSet that could not be decoded.
type ParseError struct {
	Source string
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("parsing %s change set: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("parsing %s change set %s: %v", e.Format, e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ErrNoJSON is returned by ParseResponse when the text holds no JSON object.
var ErrNoJSON = errors.New("no JSON object found in response")

var (
	fencedJSONPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	bareJSONPattern   = regexp.MustCompile(`(?s)\{.*\}`)
)

// FormatFromPath picks the decoder for path by extension. Unknown
// extensions are read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".txt", ".md", ".log":
		return FormatResponse
	default:
		return FormatJSON
	}
}

// Load reads and decodes the ChangeSet at path. The result is normalised.
// A path of "-" reads standard input.
func Load(path string) (*ChangeSet, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading change set: %w", err)
	}

	cs, err := Decode(data, FormatFromPath(path))
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Source = path
		}
		return nil, err
	}
	return cs, nil
}

// Decode decodes data in the given format. Empty input yields an empty
// ChangeSet; missing fields default to empty values. JSON input that is not
// itself an object is retried as a classifier response.
func Decode(data []byte, format Format) (*ChangeSet, error) {
	cs := &ChangeSet{}
	if len(bytes.TrimSpace(data)) == 0 {
		cs.Normalize()
		return cs, nil
	}

	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, cs)
	case FormatTOML:
		err = toml.Unmarshal(data, cs)
	case FormatResponse:
		return ParseResponse(string(data))
	default:
		format = FormatJSON
		err = json.Unmarshal(data, cs)
		if err != nil && !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
			if resp, rerr := ParseResponse(string(data)); rerr == nil {
				return resp, nil
			}
		}
	}
	if err != nil {
		return nil, &ParseError{Format: format, Err: err}
	}

	cs.Normalize()
	return cs, nil
}

// ParseResponse extracts a ChangeSet from a free-text classifier response.
// A fenced ```json block is preferred; otherwise the outermost bare {...}
// is used. A response without a significance is treated as medium.
func ParseResponse(text string) (*ChangeSet, error) {
	var raw string
	if m := fencedJSONPattern.FindStringSubmatch(text); m != nil {
		raw = m[1]
	} else if m := bareJSONPattern.FindString(text); m != "" {
		raw = m
	} else {
		return nil, &ParseError{Format: FormatJSON, Err: ErrNoJSON}
	}

	cs := &ChangeSet{}
	if err := json.Unmarshal([]byte(raw), cs); err != nil {
		return nil, &ParseError{Format: FormatJSON, Err: err}
	}
	if strings.TrimSpace(string(cs.Significance)) == "" {
		cs.Significance = SignificanceMedium
	}
	cs.Normalize()
	return cs, nil
}
