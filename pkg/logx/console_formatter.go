package logx

import (
	"fmt"
	"strings"
)

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
	colorWhite = "\033[97m"

	colorBoldRed    = "\033[1;31m"
	colorBoldYellow = "\033[1;33m"
	colorBoldCyan   = "\033[1;36m"
	colorBoldGreen  = "\033[1;32m"
)

// ConsoleFormatter writes one human readable line per entry. Fields are
// printed in key order so output is stable.
type ConsoleFormatter struct {
	cfg Config
}

func NewConsoleFormatter(cfg Config) *ConsoleFormatter {
	return &ConsoleFormatter{cfg: cfg}
}

func (f *ConsoleFormatter) Format(entry *LogEntry) ([]byte, error) {
	var b strings.Builder

	if f.cfg.EnableTimestamp {
		f.paint(&b, colorGray, formatTimestamp(entry.Timestamp, f.cfg.TimeFormat))
		b.WriteString(" ")
	}

	b.WriteString(f.level(entry.Level))
	b.WriteString(" ")

	if f.cfg.EnableCaller && entry.Caller != "" {
		f.paint(&b, colorGray, "["+entry.Caller+"]")
		b.WriteString(" ")
	}

	f.paint(&b, colorWhite, entry.Message)

	if len(entry.Fields) > 0 {
		pairs := make([]string, 0, len(entry.Fields))
		for _, k := range entry.Fields.sortedKeys() {
			pairs = append(pairs, fmt.Sprintf("%s=%v", k, entry.Fields[k]))
		}
		b.WriteString(" ")
		f.paint(&b, colorCyan, strings.Join(pairs, " "))
	}

	if entry.Error != nil {
		b.WriteString("\n")
		f.paint(&b, colorRed, "  error: "+entry.Error.Error())
	}

	b.WriteString("\n")
	if entry.Data != nil {
		for _, line := range strings.Split(prettyJSON(entry.Data), "\n") {
			f.paint(&b, colorGray, "  "+line)
			b.WriteString("\n")
		}
	}

	return []byte(b.String()), nil
}

func (f *ConsoleFormatter) paint(b *strings.Builder, color, s string) {
	if !f.cfg.EnableColors {
		b.WriteString(s)
		return
	}
	b.WriteString(color)
	b.WriteString(s)
	b.WriteString(colorReset)
}

func (f *ConsoleFormatter) level(level Level) string {
	label := fmt.Sprintf("[%-5s]", level.String())
	if !f.cfg.EnableColors {
		return label
	}
	switch level {
	case LevelDebug:
		return colorBoldCyan + label + colorReset
	case LevelInfo:
		return colorBoldGreen + label + colorReset
	case LevelWarn:
		return colorBoldYellow + label + colorReset
	case LevelError:
		return colorBoldRed + label + colorReset
	default:
		return colorGray + label + colorReset
	}
}
