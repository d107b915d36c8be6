// Package tokenizer estimates how many model tokens the packed artifact costs.
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

const (
	defaultModel        = "gpt-4o"
	defaultEncodingName = tiktoken.MODEL_CL100K_BASE

	errorInitializeEncodingFormat = "initialize tokenizer encoding %s: %w"
)

// EncodingNameForModel maps a model name to its tiktoken encoding. Unknown
// models resolve to cl100k_base and report false.
func EncodingNameForModel(model string) (string, bool) {
	lowerModel := strings.ToLower(strings.TrimSpace(model))
	if lowerModel == "" {
		lowerModel = defaultModel
	}
	if encodingName, known := tiktoken.MODEL_TO_ENCODING[lowerModel]; known {
		return encodingName, true
	}
	longestPrefix := ""
	encodingName := ""
	for prefix, prefixEncoding := range tiktoken.MODEL_PREFIX_TO_ENCODING {
		if strings.HasPrefix(lowerModel, prefix) && len(prefix) > len(longestPrefix) {
			longestPrefix = prefix
			encodingName = prefixEncoding
		}
	}
	if encodingName != "" {
		return encodingName, true
	}
	return defaultEncodingName, false
}

// NewCounter returns a tiktoken counter for model together with the name it
// reports: the model itself when known, otherwise the fallback encoding.
func NewCounter(model string) (Counter, string, error) {
	resolvedModel := strings.TrimSpace(model)
	if resolvedModel == "" {
		resolvedModel = defaultModel
	}
	encodingName, known := EncodingNameForModel(resolvedModel)
	encoding, encodingError := tiktoken.GetEncoding(encodingName)
	if encodingError != nil {
		return nil, "", fmt.Errorf(errorInitializeEncodingFormat, encodingName, encodingError)
	}
	if !known {
		resolvedModel = encodingName
	}
	return openAICounter{encoding: encoding, name: encodingName}, resolvedModel, nil
}
