package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Read returns at most maxLines from the end of the file at path. A missing
// file yields no lines and no error.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Level is the severity inferred from a log line.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// Entry is a log line split into its standard logger prefix and message.
type Entry struct {
	Timestamp string // "2006/01/02 15:04:05", empty when the line has none
	Message   string
	Level     Level
}

// Parse splits a line written by the standard logger with log.LstdFlags.
// Lines without the prefix are returned whole as the message.
func Parse(line string) Entry {
	entry := Entry{Message: line}
	if len(line) >= 20 && isTimestamp(line[:19]) && line[19] == ' ' {
		entry.Timestamp = line[:19]
		entry.Message = line[20:]
	}
	entry.Level = classify(entry.Message)
	return entry
}

func isTimestamp(s string) bool {
	// 2006/01/02 15:04:05
	for i, r := range s {
		switch i {
		case 4, 7:
			if r != '/' {
				return false
			}
		case 10:
			if r != ' ' {
				return false
			}
		case 13, 16:
			if r != ':' {
				return false
			}
		default:
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}

func classify(msg string) Level {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "failed"), strings.Contains(lower, "error"), strings.Contains(lower, "panic"):
		return LevelError
	case strings.Contains(lower, "warn"), strings.Contains(lower, "retry"):
		return LevelWarn
	default:
		return LevelInfo
	}
}
