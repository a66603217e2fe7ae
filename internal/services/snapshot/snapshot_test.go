package snapshot_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/codesnap/internal/config"
	"github.com/temirov/codesnap/internal/services/snapshot"
	"github.com/temirov/codesnap/internal/tokenizer"
)

const (
	outputFileName = "project_snapshot.txt"
	separator      = "=================================================="

	workedExampleOutput = "--- DIRECTORY STRUCTURE ---\n" +
		"./\n" +
		"    a.py\n" +
		"    notes.txt\n" +
		"    project_snapshot.txt\n" +
		"\n\n--- FILE CONTENTS ---\n\n" +
		"\n" + separator + "\nPATH: ./a.py\n" + separator + "\n" +
		"x=1"
)

type runeCounter struct{}

func (runeCounter) Name() string { return "runes" }

func (runeCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }

type brokenCounter struct{}

func (brokenCounter) Name() string { return "broken" }

func (brokenCounter) CountString(string) (int, error) { return 0, errors.New("encoder unavailable") }

func writeTestFile(testingHandle *testing.T, filePath string, content []byte) {
	testingHandle.Helper()
	if makeDirError := os.MkdirAll(filepath.Dir(filePath), 0o755); makeDirError != nil {
		testingHandle.Fatalf("creating %s: %v", filepath.Dir(filePath), makeDirError)
	}
	if writeError := os.WriteFile(filePath, content, 0o644); writeError != nil {
		testingHandle.Fatalf("writing %s: %v", filePath, writeError)
	}
}

func defaultOptions(testingHandle *testing.T, rootDirectory string) snapshot.Options {
	testingHandle.Helper()
	configuration, loadError := config.LoadDefaultConfiguration()
	if loadError != nil {
		testingHandle.Fatalf("loading configuration: %v", loadError)
	}
	return snapshot.Options{
		RootDirectory: rootDirectory,
		OutputFile:    configuration.OutputFile,
		Rules:         configuration.Rules(),
		Logger:        zaptest.NewLogger(testingHandle),
	}
}

func createWorkedExample(testingHandle *testing.T) string {
	testingHandle.Helper()
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "a.py"), []byte("x=1"))
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "notes.txt"), []byte("remember"))
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "node_modules", "ignored.js"), []byte("module.exports = 1"))
	return rootDirectory
}

func generateAndRead(testingHandle *testing.T, options snapshot.Options) (snapshot.Result, string) {
	testingHandle.Helper()
	result, generateError := snapshot.Generate(options)
	if generateError != nil {
		testingHandle.Fatalf("Generate error: %v", generateError)
	}
	content, readError := os.ReadFile(result.OutputPath)
	if readError != nil {
		testingHandle.Fatalf("reading output: %v", readError)
	}
	return result, string(content)
}

// TestGenerateWorkedExample verifies the complete artifact for a small project.
func TestGenerateWorkedExample(testingHandle *testing.T) {
	rootDirectory := createWorkedExample(testingHandle)

	result, content := generateAndRead(testingHandle, defaultOptions(testingHandle, rootDirectory))

	if result.OutputPath != filepath.Join(rootDirectory, outputFileName) {
		testingHandle.Fatalf("unexpected output path %s", result.OutputPath)
	}
	if content != workedExampleOutput {
		testingHandle.Fatalf("unexpected output:\n got %q\nwant %q", content, workedExampleOutput)
	}
	if result.Summary.TotalFiles != 1 || result.Summary.TotalBytes != 3 || result.Summary.TotalSize != "3b" {
		testingHandle.Fatalf("unexpected summary: %+v", result.Summary)
	}
	if result.Summary.TotalTokens != 0 || result.Summary.Model != "" {
		testingHandle.Fatalf("expected no token estimate without a counter: %+v", result.Summary)
	}
}

// TestGenerateIsIdempotent verifies two runs over an unchanged tree produce identical bytes.
func TestGenerateIsIdempotent(testingHandle *testing.T) {
	rootDirectory := createWorkedExample(testingHandle)
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "src", "app.ts"), []byte("export const a = 1;\n"))
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "src", "lib", "util.go"), []byte("package lib\n"))

	_, firstContent := generateAndRead(testingHandle, defaultOptions(testingHandle, rootDirectory))
	_, secondContent := generateAndRead(testingHandle, defaultOptions(testingHandle, rootDirectory))

	if firstContent != secondContent {
		testingHandle.Fatalf("runs differ:\nfirst  %q\nsecond %q", firstContent, secondContent)
	}
	if strings.Count(secondContent, "PATH: ") != 3 {
		testingHandle.Fatalf("expected three entries, got:\n%s", secondContent)
	}
}

// TestGenerateTruncatesPreviousOutput verifies stale artifacts are replaced and never embedded.
func TestGenerateTruncatesPreviousOutput(testingHandle *testing.T) {
	rootDirectory := createWorkedExample(testingHandle)
	writeTestFile(testingHandle, filepath.Join(rootDirectory, outputFileName), []byte(strings.Repeat("stale\n", 100)))

	_, content := generateAndRead(testingHandle, defaultOptions(testingHandle, rootDirectory))

	if content != workedExampleOutput {
		testingHandle.Fatalf("expected previous artifact to be replaced, got %q", content)
	}
}

// TestGeneratePrunesIgnoredDirectories verifies ignored directories vanish from both sections.
func TestGeneratePrunesIgnoredDirectories(testingHandle *testing.T) {
	rootDirectory := createWorkedExample(testingHandle)
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "src", "node_modules", "deep.js"), []byte("deep"))
	writeTestFile(testingHandle, filepath.Join(rootDirectory, ".git", "config.json"), []byte("{}"))

	_, content := generateAndRead(testingHandle, defaultOptions(testingHandle, rootDirectory))

	for _, forbidden := range []string{"node_modules", "ignored.js", "deep.js", ".git", "config.json"} {
		if strings.Contains(content, forbidden) {
			testingHandle.Fatalf("output mentions %q:\n%s", forbidden, content)
		}
	}
	if !strings.Contains(content, "    src/\n") {
		testingHandle.Fatalf("expected src directory in tree:\n%s", content)
	}
}

// TestGenerateIsolatesUnreadableFiles verifies decode failures become placeholders and are logged.
func TestGenerateIsolatesUnreadableFiles(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "a.py"), []byte("print(1)\n"))
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "b.py"), []byte{0xff, 0xfe, 0x00})
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "c.py"), []byte("print(3)\n"))

	observedCore, observedLogs := observer.New(zapcore.WarnLevel)
	options := defaultOptions(testingHandle, rootDirectory)
	options.Logger = zap.New(observedCore)

	result, content := generateAndRead(testingHandle, options)

	if !strings.Contains(content, "PATH: ./b.py\n"+separator+"\n[Error reading file: ") {
		testingHandle.Fatalf("expected placeholder for b.py:\n%s", content)
	}
	for _, expected := range []string{"PATH: ./a.py\n" + separator + "\nprint(1)\n", "PATH: ./c.py\n" + separator + "\nprint(3)\n"} {
		if !strings.Contains(content, expected) {
			testingHandle.Fatalf("expected %q in output:\n%s", expected, content)
		}
	}
	if result.Summary.TotalFiles != 3 || result.Summary.UnreadableFiles != 1 {
		testingHandle.Fatalf("unexpected summary: %+v", result.Summary)
	}
	if observedLogs.Len() != 1 {
		testingHandle.Fatalf("expected one warning, got %d", observedLogs.Len())
	}
	if path := observedLogs.All()[0].ContextMap()["path"]; path != "./b.py" {
		testingHandle.Fatalf("expected warning for ./b.py, got %v", path)
	}
}

// TestGenerateReplacesDanglingLinkContent verifies a link to a missing target is listed and
// dumped as a placeholder.
func TestGenerateReplacesDanglingLinkContent(testingHandle *testing.T) {
	rootDirectory := createWorkedExample(testingHandle)
	if linkError := os.Symlink(filepath.Join(rootDirectory, "missing.py"), filepath.Join(rootDirectory, "dead.py")); linkError != nil {
		testingHandle.Skipf("symbolic links unavailable: %v", linkError)
	}

	result, content := generateAndRead(testingHandle, defaultOptions(testingHandle, rootDirectory))

	if !strings.Contains(content, "    dead.py\n") {
		testingHandle.Fatalf("expected dead.py in tree:\n%s", content)
	}
	if !strings.Contains(content, "PATH: ./dead.py\n"+separator+"\n[Error reading file: ") {
		testingHandle.Fatalf("expected placeholder for dead.py:\n%s", content)
	}
	if strings.Index(content, "PATH: ./a.py\n") > strings.Index(content, "PATH: ./dead.py\n") {
		testingHandle.Fatalf("unexpected content order:\n%s", content)
	}
	if result.Summary.TotalFiles != 2 || result.Summary.UnreadableFiles != 1 || result.Summary.TotalBytes != 3 {
		testingHandle.Fatalf("unexpected summary: %+v", result.Summary)
	}
}

// TestGenerateTokenSummary verifies the estimate is accumulated over readable files.
func TestGenerateTokenSummary(testingHandle *testing.T) {
	testCases := []struct {
		name          string
		counter       tokenizer.Counter
		expectedTotal int
		expectedModel string
	}{
		{name: "counted", counter: runeCounter{}, expectedTotal: 3 + 6, expectedModel: "test-model"},
		{name: "counter failure omits estimate", counter: brokenCounter{}, expectedTotal: 0, expectedModel: ""},
	}

	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(testingInstance *testing.T) {
			rootDirectory := createWorkedExample(testingInstance)
			writeTestFile(testingInstance, filepath.Join(rootDirectory, "b.js"), []byte("let b;"))
			options := defaultOptions(testingInstance, rootDirectory)
			options.TokenCounter = testCase.counter
			options.TokenModel = "test-model"

			result, _ := generateAndRead(testingInstance, options)

			if result.Summary.TotalTokens != testCase.expectedTotal || result.Summary.Model != testCase.expectedModel {
				testingInstance.Fatalf("unexpected summary: %+v", result.Summary)
			}
			if result.Summary.TotalFiles != 2 {
				testingInstance.Fatalf("expected two files, got %d", result.Summary.TotalFiles)
			}
		})
	}
}

// TestGenerateErrors verifies fatal conditions abort the run.
func TestGenerateErrors(testingHandle *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*snapshot.Options)
		message string
	}{
		{
			name:    "missing root",
			mutate:  func(options *snapshot.Options) { options.RootDirectory = filepath.Join(options.RootDirectory, "missing") },
			message: "creating output file",
		},
		{
			name:    "empty root",
			mutate:  func(options *snapshot.Options) { options.RootDirectory = "" },
			message: "root directory is empty",
		},
		{
			name:    "empty output",
			mutate:  func(options *snapshot.Options) { options.OutputFile = "" },
			message: "output file is empty",
		},
	}

	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(testingInstance *testing.T) {
			options := defaultOptions(testingInstance, testingInstance.TempDir())
			testCase.mutate(&options)
			_, generateError := snapshot.Generate(options)
			if generateError == nil || !strings.Contains(generateError.Error(), testCase.message) {
				testingInstance.Fatalf("expected error containing %q, got %v", testCase.message, generateError)
			}
		})
	}
}

// TestGenerateFailsOnUnreadableDirectory verifies enumeration failures are fatal.
func TestGenerateFailsOnUnreadableDirectory(testingHandle *testing.T) {
	if os.Geteuid() == 0 {
		testingHandle.Skip("permission bits are not enforced for root")
	}
	rootDirectory := createWorkedExample(testingHandle)
	lockedDirectory := filepath.Join(rootDirectory, "locked")
	writeTestFile(testingHandle, filepath.Join(lockedDirectory, "secret.py"), []byte("x"))
	if chmodError := os.Chmod(lockedDirectory, 0o000); chmodError != nil {
		testingHandle.Fatalf("chmod: %v", chmodError)
	}
	testingHandle.Cleanup(func() { _ = os.Chmod(lockedDirectory, 0o755) })

	_, generateError := snapshot.Generate(defaultOptions(testingHandle, rootDirectory))
	if generateError == nil || !strings.Contains(generateError.Error(), "writing directory structure") {
		testingHandle.Fatalf("expected directory structure failure, got %v", generateError)
	}
	if !errors.Is(generateError, os.ErrPermission) {
		testingHandle.Fatalf("expected permission error in chain, got %v", generateError)
	}
}
