package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tyemirov/codepack/internal/commands"
	"github.com/tyemirov/codepack/internal/config"
	"github.com/tyemirov/codepack/internal/tokenizer"
	"github.com/tyemirov/codepack/internal/utils"
)

const testVersion = "v1.2.3"

type recordingCopier struct {
	copied []string
}

func (copier *recordingCopier) Copy(text string) error {
	copier.copied = append(copier.copied, text)
	return nil
}

type wordCounter struct{}

func (wordCounter) Name() string { return "words" }

func (wordCounter) CountString(input string) (int, error) { return len(strings.Fields(input)), nil }

type commandHarness struct {
	standardOutput *bytes.Buffer
	copier         *recordingCopier
	observedLogs   *observer.ObservedLogs
	requestedModel string
}

func runCommand(t *testing.T, arguments ...string) (*commandHarness, error) {
	t.Helper()
	core, observedLogs := observer.New(zapcore.DebugLevel)
	harness := &commandHarness{
		standardOutput: &bytes.Buffer{},
		copier:         &recordingCopier{},
		observedLogs:   observedLogs,
	}
	rootCommand := NewRootCommand(Dependencies{
		Logger: zap.New(core),
		Copier: harness.copier,
		NewCounter: func(model string) (tokenizer.Counter, string, error) {
			harness.requestedModel = model
			return wordCounter{}, model, nil
		},
		LoadOptions:    config.LoadOptions{DisableGlobal: true},
		VersionLookup:  func() string { return testVersion },
		StandardOutput: harness.standardOutput,
	})
	rootCommand.SetArgs(normalizeToggleArguments(rootCommand, arguments))
	return harness, rootCommand.Execute()
}

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	rootDirectory := t.TempDir()
	for relativePath, content := range files {
		absolutePath := filepath.Join(rootDirectory, filepath.FromSlash(relativePath))
		if err := os.MkdirAll(filepath.Dir(absolutePath), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(absolutePath, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", relativePath, err)
		}
	}
	return rootDirectory
}

func readPackedFile(t *testing.T, filePath string) string {
	t.Helper()
	content, err := os.ReadFile(filePath)
	if err != nil {
		t.Fatalf("read packed file: %v", err)
	}
	return string(content)
}

func TestRootCommandPacksProject(t *testing.T) {
	rootDirectory := writeProject(t, map[string]string{
		"a.py":       "print('a')\n",
		"b.png":      "\x89PNG",
		"old/c.py":   "print('c')\n",
		".gitignore": "/old\n",
	})
	harness, err := runCommand(t, rootDirectory)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	packedFile := readPackedFile(t, filepath.Join(rootDirectory, utils.DefaultOutputFileName))
	expected := "Directory Structure:\n\n└── ./\n    └── a.py\n\n\n--- a.py ---\n\nprint('a')\n\n"
	if packedFile != expected {
		t.Fatalf("unexpected packed file:\n%q\nwant:\n%q", packedFile, expected)
	}
	if !strings.HasPrefix(harness.standardOutput.String(), "Summary: 1 file of 1 selected") {
		t.Fatalf("unexpected summary %q", harness.standardOutput.String())
	}
	if len(harness.copier.copied) != 0 {
		t.Fatalf("clipboard must stay untouched without --clipboard")
	}
}

func TestPackSubcommandWithFlags(t *testing.T) {
	rootDirectory := writeProject(t, map[string]string{
		"src/core/engine.js": "export const engine = 1\n",
		"src/ui/panel.js":    "export const panel = 2\n",
		"notes.md":           "notes\n",
	})
	harness, err := runCommand(t, "pack", "--preset", "core", "--output", "bundle.txt", "--tokens", "--model", "gpt-4", "--clipboard", "yes", rootDirectory)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	packedFile := readPackedFile(t, filepath.Join(rootDirectory, "bundle.txt"))
	if !strings.Contains(packedFile, "--- src/core/engine.js ---") || strings.Contains(packedFile, "panel.js") {
		t.Fatalf("preset was not applied:\n%s", packedFile)
	}
	if harness.requestedModel != "gpt-4" {
		t.Fatalf("expected tokenizer model gpt-4, got %q", harness.requestedModel)
	}
	if !strings.Contains(harness.standardOutput.String(), "tokens (model: gpt-4)") {
		t.Fatalf("summary must carry the token count, got %q", harness.standardOutput.String())
	}
	if len(harness.copier.copied) != 1 || harness.copier.copied[0] != packedFile {
		t.Fatalf("expected the packed file on the clipboard")
	}
}

func TestLocalConfigurationAndFlagPrecedence(t *testing.T) {
	rootDirectory := writeProject(t, map[string]string{
		"main.go":            "package main\n",
		"script.py":          "print(1)\n",
		"vendor/dep.go":      "package dep\n",
		utils.ConfigFileName: "extensions: [go]\nignore: [vendor]\noutput: from-config.txt\n",
	})
	if _, err := runCommand(t, rootDirectory); err != nil {
		t.Fatalf("execute: %v", err)
	}
	packedFile := readPackedFile(t, filepath.Join(rootDirectory, "from-config.txt"))
	if !strings.Contains(packedFile, "--- main.go ---") || strings.Contains(packedFile, "script.py") || strings.Contains(packedFile, "vendor") {
		t.Fatalf("configuration was not applied:\n%s", packedFile)
	}

	if _, err := runCommand(t, "--output", "from-flag.txt", "--ext", "py", rootDirectory); err != nil {
		t.Fatalf("execute: %v", err)
	}
	packedFile = readPackedFile(t, filepath.Join(rootDirectory, "from-flag.txt"))
	if !strings.Contains(packedFile, "--- script.py ---") || strings.Contains(packedFile, "main.go") {
		t.Fatalf("flags must override the configuration file:\n%s", packedFile)
	}
}

func TestEmptySelectionFails(t *testing.T) {
	rootDirectory := writeProject(t, map[string]string{"image.png": "\x89PNG"})
	_, err := runCommand(t, rootDirectory)
	if !errors.Is(err, commands.ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(rootDirectory, utils.DefaultOutputFileName)); !os.IsNotExist(statErr) {
		t.Fatalf("no packed file may be created, stat error: %v", statErr)
	}
}

func TestUnknownPresetWarns(t *testing.T) {
	rootDirectory := writeProject(t, map[string]string{"a.py": "a = 1\n"})
	harness, err := runCommand(t, "-p", "backend", rootDirectory)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if harness.observedLogs.FilterField(zap.String("preset", "backend")).Len() != 1 {
		t.Fatalf("expected a warning naming the unknown preset")
	}
}

func TestTreeCommand(t *testing.T) {
	rootDirectory := writeProject(t, map[string]string{
		"a.py":     "a = 1\n",
		"pkg/b.py": "b = 2\n",
	})
	harness, err := runCommand(t, "tree", rootDirectory)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	expected := "Directory Structure:\n\n└── ./\n    ├── a.py\n    └── pkg\n        └── b.py\n\n"
	if harness.standardOutput.String() != expected {
		t.Fatalf("unexpected tree:\n%q\nwant:\n%q", harness.standardOutput.String(), expected)
	}
	if _, statErr := os.Stat(filepath.Join(rootDirectory, utils.DefaultOutputFileName)); !os.IsNotExist(statErr) {
		t.Fatalf("tree must not write the packed file")
	}
}

func TestPresetsCommand(t *testing.T) {
	harness, err := runCommand(t, "presets")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(harness.standardOutput.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected three presets, got %q", lines)
	}
	if !strings.HasPrefix(lines[0], "all ") || !strings.HasPrefix(lines[1], "core ") || !strings.HasPrefix(lines[2], "ui ") {
		t.Fatalf("unexpected listing %q", lines)
	}
	if !strings.Contains(lines[1], "[src/core, src/utils, src/constants.js, src/main.js]") {
		t.Fatalf("core preset must list its roots, got %q", lines[1])
	}
}

func TestVersionFlag(t *testing.T) {
	harness, err := runCommand(t, "--version")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if harness.standardOutput.String() != "codepack version: "+testVersion+"\n" {
		t.Fatalf("unexpected version output %q", harness.standardOutput.String())
	}
}

func TestInvalidMaxSizeFails(t *testing.T) {
	rootDirectory := writeProject(t, map[string]string{"a.py": "a = 1\n"})
	if _, err := runCommand(t, "--max-size", "huge", rootDirectory); err == nil {
		t.Fatalf("expected an error for an invalid size")
	}
}
