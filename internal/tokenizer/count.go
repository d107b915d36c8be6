package tokenizer

import (
	"errors"
	"os"

	"github.com/tyemirov/codepack/internal/utils"
)

var errNilCounter = errors.New("nil tokenizer counter")

// CountResult captures the outcome of counting a file or byte slice.
type CountResult struct {
	Tokens  int
	Counted bool
}

// CountBytes estimates tokens for data. Binary data is not counted.
func CountBytes(counter Counter, data []byte) (CountResult, error) {
	if counter == nil {
		return CountResult{}, errNilCounter
	}
	if utils.IsBinary(data) {
		return CountResult{Counted: false}, nil
	}
	tokens, countError := counter.CountString(string(data))
	if countError != nil {
		return CountResult{}, countError
	}
	return CountResult{Tokens: tokens, Counted: true}, nil
}

// CountFile reads the file at filePath and estimates its token count.
func CountFile(counter Counter, filePath string) (CountResult, error) {
	if counter == nil {
		return CountResult{}, errNilCounter
	}
	data, readError := os.ReadFile(filePath)
	if readError != nil {
		return CountResult{}, readError
	}
	return CountBytes(counter, data)
}
