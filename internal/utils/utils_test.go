package utils_test

import (
	"testing"

	"github.com/tyemirov/codepack/internal/utils"
)

// TestDeduplicatePatterns verifies that DeduplicatePatterns removes duplicate patterns.
func TestDeduplicatePatterns(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		patterns []string
		expected []string
	}{
		{
			testName: "removes duplicates",
			patterns: []string{"a", "b", "a"},
			expected: []string{"a", "b"},
		},
		{
			testName: "keeps unique",
			patterns: []string{"a", "b"},
			expected: []string{"a", "b"},
		},
	}
	for index, testCase := range testCases {
		actual := utils.DeduplicatePatterns(testCase.patterns)
		if len(actual) != len(testCase.expected) {
			testingInstance.Errorf("case %d (%s): expected length %d, got %d", index, testCase.testName, len(testCase.expected), len(actual))
			continue
		}
		for position, value := range actual {
			if value != testCase.expected[position] {
				testingInstance.Errorf("case %d (%s): expected %s at position %d, got %s", index, testCase.testName, testCase.expected[position], position, value)
			}
		}
	}
}

// TestNormalizeSlashes verifies backslash conversion.
func TestNormalizeSlashes(testingInstance *testing.T) {
	if actual := utils.NormalizeSlashes(`src\core\engine.py`); actual != "src/core/engine.py" {
		testingInstance.Fatalf("expected forward slashes, got %s", actual)
	}
}

// TestNormalizeExtension verifies the accepted extension spellings.
func TestNormalizeExtension(testingInstance *testing.T) {
	testCases := []struct {
		testName  string
		extension string
		expected  string
	}{
		{testName: "dotted", extension: ".py", expected: ".py"},
		{testName: "bare", extension: "js", expected: ".js"},
		{testName: "glob", extension: "*.Md", expected: ".md"},
		{testName: "upper case", extension: ".YAML", expected: ".yaml"},
		{testName: "empty", extension: "  ", expected: ""},
	}
	for index, testCase := range testCases {
		actual := utils.NormalizeExtension(testCase.extension)
		if actual != testCase.expected {
			testingInstance.Errorf("case %d (%s): expected %q, got %q", index, testCase.testName, testCase.expected, actual)
		}
	}
}

// TestIsBinary verifies detection of binary data in byte slices.
func TestIsBinary(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		data     []byte
		expected bool
	}{
		{
			testName: "utf8 text",
			data:     []byte("hello"),
			expected: false,
		},
		{
			testName: "null byte",
			data:     []byte{0x00, 0x01},
			expected: true,
		},
		{
			testName: "invalid utf8",
			data:     []byte{0xff},
			expected: true,
		},
		{
			testName: "empty slice",
			data:     []byte{},
			expected: false,
		},
	}
	for index, testCase := range testCases {
		actual := utils.IsBinary(testCase.data)
		if actual != testCase.expected {
			testingInstance.Errorf("case %d (%s): expected %t, got %t", index, testCase.testName, testCase.expected, actual)
		}
	}
}
