package rules

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultExportName is the name of exported rules file unless configured
// otherwise.
const DefaultExportName = "fontswap_options.json"

// ErrMalformedInput is returned by Decode when data cannot be read as UTF-8
// JSON at all, before its shape is looked at.
var ErrMalformedInput = errors.New("malformed input")

// Decode reads exchanged (imported) rules. Optional UTF-8 BOM is ignored.
// Decoding failures are reported as ErrMalformedInput, structural problems as
// ErrInvalidShape. Resulting rules are always legacy rules.
func Decode(data []byte) (RuleSet, error) {
	obj, err := decodeText(data)
	if err != nil {
		return RuleSet{}, err
	}
	return Validate(obj)
}

func decodeText(data []byte) (any, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: not a valid UTF-8 text", ErrMalformedInput)
	}
	text, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	var obj any
	if err := json.Unmarshal(text, &obj); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	return obj, nil
}

// Export produces pretty printed rule set for exchange. Resolved locals are
// machine specific and never exported.
func Export(rs RuleSet) ([]byte, error) {
	data, err := json.MarshalIndent(rs.Stripped(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("unable to marshal rules: %w", err)
	}
	return append(data, '\n'), nil
}
