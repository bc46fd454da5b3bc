package logger

import "strings"

// Level is the level at which a logger is configured. Messages below the
// configured level are dropped.
type Level uint32

// Level constants.
const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
	LevelOff
)

var levelNames = []struct {
	name string
	tag  string
}{
	LevelTrace:    {"trace", "TRC"},
	LevelDebug:    {"debug", "DBG"},
	LevelInfo:     {"info", "INF"},
	LevelWarn:     {"warn", "WRN"},
	LevelError:    {"error", "ERR"},
	LevelCritical: {"critical", "CRT"},
	LevelOff:      {"off", "OFF"},
}

// LevelFromString parses either the name or the tag of a level, ignoring
// case. LevelInfo and false are returned for anything else.
func LevelFromString(s string) (l Level, ok bool) {
	s = strings.ToLower(s)
	for level, names := range levelNames {
		if s == names.name || s == strings.ToLower(names.tag) {
			return Level(level), true
		}
	}
	return LevelInfo, false
}

// String returns the tag printed in log lines for l
func (l Level) String() string {
	if l >= LevelOff {
		return levelNames[LevelOff].tag
	}
	return levelNames[l].tag
}
