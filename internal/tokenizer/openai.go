package tokenizer

import (
	"errors"

	"github.com/pkoukk/tiktoken-go"
)

var errNilEncoding = errors.New("nil tiktoken encoding")

// openAICounter counts tokens with a tiktoken encoding. Special-token text
// inside packed sources is encoded as ordinary text.
type openAICounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

func (counter openAICounter) Name() string {
	return counter.name
}

func (counter openAICounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, errNilEncoding
	}
	return len(counter.encoding.EncodeOrdinary(input)), nil
}
