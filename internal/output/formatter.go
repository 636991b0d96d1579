package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrUnsupportedFormat is returned when no formatter matches the requested name.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// Formatter defines a pluggable output formatter that returns a byte slice.
// Implementations should be pure (no side effects besides deterministic formatting).
type Formatter interface {
	Format(report *Report) ([]byte, error)
	// Name returns a short identifier for logging / debugging.
	Name() string
}

// FormatterFunc adapter to allow ordinary functions to act as a Formatter.
type FormatterFunc struct {
	ID string
	F  func(*Report) ([]byte, error)
}

func (ff FormatterFunc) Format(r *Report) ([]byte, error) { return ff.F(r) }
func (ff FormatterFunc) Name() string                    { return ff.ID }

// WriteFormatted runs a formatter and writes its output to w.
func WriteFormatted(w io.Writer, f Formatter, report *Report) error {
	data, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("%s formatter: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

// WriteFormattedFile runs a formatter and writes the output to path. When path is an
// existing directory a timestamped tax_report_<ts>.<ext> file is created inside it.
// The written filename is returned.
func WriteFormattedFile(f Formatter, report *Report, path string) (string, error) {
	data, err := f.Format(report)
	if err != nil {
		return "", fmt.Errorf("%s formatter: %w", f.Name(), err)
	}
	if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
		path = filepath.Join(path, fmt.Sprintf("tax_report_%s.%s", time.Now().Format("20060102_150405"), Extension(f.Name())))
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// builtInFormatters stores available formatters.
var builtInFormatters = []Formatter{
	ConsoleVerboseFormatter{},
	ConsoleFormatter{},
	CSVSummarizer{},
	CSVDetailedExporter{},
	HTMLFormatter{},
	JSONFormatter,
	YAMLFormatter{},
}

// GetFormatterByName fetches a registered formatter.
func GetFormatterByName(name string) Formatter {
	for _, f := range builtInFormatters {
		if f.Name() == name {
			return f
		}
	}
	// try normalized name
	n := NormalizeFormatName(name)
	for _, f := range builtInFormatters {
		if f.Name() == n {
			return f
		}
	}
	return nil
}

// LookupFormatter is GetFormatterByName with an error listing the valid choices.
func LookupFormatter(name string) (Formatter, error) {
	if f := GetFormatterByName(name); f != nil {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, name,
		strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
}

// aliasMap provides user-friendly synonyms for format names.
var aliasMap = map[string]string{
	"console-verbose": "console",
	"verbose":         "console",
	"text":            "console",
	"summary":         "console-lite",
	"csv-detailed":    "detailed-csv",
	"csv-brackets":    "detailed-csv",
	"csv-summary":     "csv",
	"html-report":     "html",
	"json-pretty":     "json",
	"yml":             "yaml",
}

// NormalizeFormatName lowers and resolves aliases.
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if mapped, ok := aliasMap[n]; ok {
		return mapped
	}
	return n
}

// Extension returns the file extension used for a formatter's output.
func Extension(name string) string {
	switch n := NormalizeFormatName(name); {
	case strings.HasPrefix(n, "console"):
		return "txt"
	case strings.Contains(n, "csv"):
		return "csv"
	default:
		return n
	}
}

// AvailableFormatterNames returns the canonical formatter names.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(builtInFormatters))
	for _, f := range builtInFormatters {
		names = append(names, f.Name())
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases returns the supported alias keys.
func AvailableFormatAliases() []string {
	keys := make([]string, 0, len(aliasMap))
	for k := range aliasMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
