package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Iron-Ham/shortcuts/internal/errors"
)

// ValidMessage is returned by Validate for a well-formed file.
const ValidMessage = "JSON is valid."

// Validate checks that the file at path is syntactically valid JSON.
// The message locates the first syntax error by line and column.
func Validate(path string) (bool, string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, fmt.Sprintf("File not found: %s", path)
		}
		return false, fmt.Sprintf("An unexpected error occurred: %v", err)
	}
	return ValidateBytes(data)
}

// ValidateBytes is Validate for in-memory content.
func ValidateBytes(data []byte) (bool, string) {
	var v any
	err := json.Unmarshal(data, &v)
	if err == nil {
		return true, ValidMessage
	}

	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return false, fmt.Sprintf("Invalid JSON: %v", err)
	}

	line, col := position(data, syntaxErr.Offset)
	return false, fmt.Sprintf("Invalid JSON: %s at line %d column %d (char %d)",
		syntaxErr.Error(), line, col, syntaxErr.Offset)
}

// position converts a decoder offset (bytes read, including the offending
// byte) to the 1-based line and column of that byte.
func position(data []byte, offset int64) (int, int) {
	pos := int(offset) - 1
	if pos > len(data) {
		pos = len(data)
	}
	if pos < 0 {
		pos = 0
	}
	before := data[:pos]
	line := bytes.Count(before, []byte("\n")) + 1
	col := pos - bytes.LastIndexByte(before, '\n')
	return line, col
}
