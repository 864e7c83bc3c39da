package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "zero lines",
			maxLines: 0,
			expected: nil,
		},
		{
			name:     "negative",
			maxLines: -1,
			expected: nil,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Read() = %v, %v; want nil, nil", got, err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Entry
	}{
		{
			name:  "info line",
			input: "2026/03/04 10:11:12 bookshelf starting backend=http://127.0.0.1:5555",
			want:  Entry{Timestamp: "2026/03/04 10:11:12", Message: "bookshelf starting backend=http://127.0.0.1:5555", Level: LevelInfo},
		},
		{
			name:  "failure line",
			input: "2026/03/04 10:11:13 create book failed: create book: validation error (status 400): Title required",
			want:  Entry{Timestamp: "2026/03/04 10:11:13", Message: "create book failed: create book: validation error (status 400): Title required", Level: LevelError},
		},
		{
			name:  "no prefix",
			input: "panic: runtime error",
			want:  Entry{Message: "panic: runtime error", Level: LevelError},
		},
		{
			name:  "prefix lookalike",
			input: "2026-03-04 10:11:12 not the std format",
			want:  Entry{Message: "2026-03-04 10:11:12 not the std format", Level: LevelInfo},
		},
		{
			name:  "empty",
			input: "",
			want:  Entry{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.input); got != tt.want {
				t.Errorf("Parse() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
