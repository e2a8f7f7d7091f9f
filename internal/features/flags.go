package features

import "fmt"

// Flag names a runtime feature switch
type Flag string

const (
	// FlagPingAPI controls the ping endpoint (/ping)
	FlagPingAPI Flag = "PING_API"
	// FlagReadmeLogger controls logging the README.md content on startup
	FlagReadmeLogger Flag = "README_LOGGER"
	// FlagTodoWriteAPI controls write operations on todos (create, update, delete)
	FlagTodoWriteAPI Flag = "TODO_WRITE_API"
	// FlagTodoSearchAPI controls the search API (/api/todos/search) and search in the UI
	FlagTodoSearchAPI Flag = "TODO_SEARCH_API"
)

// AllFlags returns every known flag
func AllFlags() []Flag {
	return []Flag{FlagPingAPI, FlagReadmeLogger, FlagTodoWriteAPI, FlagTodoSearchAPI}
}

// ParseFlag parses a flag name into a Flag value
func ParseFlag(name string) (Flag, error) {
	switch Flag(name) {
	case FlagPingAPI, FlagReadmeLogger, FlagTodoWriteAPI, FlagTodoSearchAPI:
		return Flag(name), nil
	default:
		return "", fmt.Errorf("unknown feature flag: %s", name)
	}
}

// Defaults holds the seeded default value for each flag
type Defaults struct {
	PingAPI       bool
	ReadmeLogger  bool
	TodoWriteAPI  bool
	TodoSearchAPI bool
}

func (d Defaults) valueFor(flag Flag) bool {
	switch flag {
	case FlagPingAPI:
		return d.PingAPI
	case FlagReadmeLogger:
		return d.ReadmeLogger
	case FlagTodoWriteAPI:
		return d.TodoWriteAPI
	case FlagTodoSearchAPI:
		return d.TodoSearchAPI
	default:
		return false
	}
}
