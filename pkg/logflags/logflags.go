package logflags

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

var loader = false
var catalog = false
var resolver = false
var invoke = false

var logOut io.WriteCloser

var errLogstrWithoutLog = errors.New("--log-output specified without --log")

var textFormatterInstance = &textFormatter{}

func makeLogger(level logrus.Level, fields Fields) Logger {
	if lf := loggerFactory; lf != nil {
		return lf(level, fields, logOut)
	}
	logger := logrus.New().WithFields(logrus.Fields(fields))
	logger.Logger.Formatter = textFormatterInstance
	if logOut != nil {
		logger.Logger.Out = logOut
	}
	logger.Logger.Level = level
	return &logrusLogger{logger}
}

func makeFlaggableLogger(flag bool, fields Fields) Logger {
	if flag {
		return makeLogger(logrus.DebugLevel, fields)
	}
	return makeLogger(logrus.ErrorLevel, fields)
}

// Loader returns true if the module loader should log.
func Loader() bool {
	return loader
}

// LoaderLogger returns a logger for the two loading passes (DWARF
// metadata and live symbol binding).
func LoaderLogger() Logger {
	return makeFlaggableLogger(loader, Fields{"layer": "loader"})
}

// Catalog returns true if catalog construction should be logged.
func Catalog() bool {
	return catalog
}

// CatalogLogger returns a logger for the member catalog.
func CatalogLogger() Logger {
	return makeFlaggableLogger(catalog, Fields{"layer": "catalog"})
}

// Resolver returns true if entry point resolution should be logged.
func Resolver() bool {
	return resolver
}

// ResolverLogger returns a logger for entry point resolution.
func ResolverLogger() Logger {
	return makeFlaggableLogger(resolver, Fields{"layer": "resolver"})
}

// Invoke returns true if argument synthesis and invocation should be logged.
func Invoke() bool {
	return invoke
}

func InvokeLogger() Logger {
	return makeFlaggableLogger(invoke, Fields{"layer": "invoke"})
}

// WriteError writes msg to the log destination, or stderr if none was set.
func WriteError(msg string) {
	if logOut != nil {
		fmt.Fprintln(logOut, msg)
	} else {
		fmt.Fprintln(os.Stderr, msg)
	}
}

// Setup sets logging flags based on the contents of logstr.
// If logDest is not empty logs will be redirected to the file descriptor or
// file path specified by logDest.
func Setup(logFlag bool, logstr, logDest string) error {
	if logDest != "" {
		n, err := strconv.Atoi(logDest)
		if err == nil {
			logOut = os.NewFile(uintptr(n), "runmod-logs")
		} else {
			fh, err := os.Create(logDest)
			if err != nil {
				return fmt.Errorf("could not create log file: %v", err)
			}
			logOut = fh
		}
	}
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	if !logFlag {
		log.SetOutput(io.Discard)
		if logstr != "" {
			return errLogstrWithoutLog
		}
		return nil
	}
	if logstr == "" {
		logstr = "loader"
	}
	v := strings.Split(logstr, ",")
	for _, logcmd := range v {
		// If adding another value, do make sure to
		// update "Help about logging flags" in commands.go.
		switch logcmd {
		case "loader":
			loader = true
		case "catalog":
			catalog = true
		case "resolver":
			resolver = true
		case "invoke":
			invoke = true
		default:
			fmt.Fprintf(os.Stderr, "Warning: unknown log output value %q, run 'runmod help log' for usage.\n", logcmd)
		}
	}
	return nil
}

// Close closes the logger output.
func Close() {
	if logOut != nil {
		logOut.Close()
	}
}

// textFormatter is a simplified version of logrus.TextFormatter that
// doesn't make logs unreadable when they are output to a text file or to a
// terminal that doesn't support colors.
type textFormatter struct {
}

func (f *textFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder
	b.WriteString(entry.Time.Format("2006-01-02T15:04:05.000000000Z07:00"))
	b.WriteByte(' ')
	b.WriteString(entry.Level.String())
	b.WriteByte(' ')
	for k, v := range entry.Data {
		b.WriteString(k)
		b.WriteByte('=')
		fmt.Fprint(&b, v)
		b.WriteByte(' ')
	}
	b.WriteString(entry.Message)
	b.WriteByte('\n')
	return []byte(b.String()), nil
}
