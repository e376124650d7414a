package output

import (
	"encoding/json"
	"fmt"
)

// PrintJSON serializes v to Stdout as JSON.
// If pretty is true, uses indentation; otherwise single-line, which is also
// the JSON Lines form used for event streams.
func PrintJSON(v interface{}, pretty bool) error {
	enc := json.NewEncoder(Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}
