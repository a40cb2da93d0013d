package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"linkup/internal/config"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds the process logger. When cfg.Folder is set, output is also
// written to a rotated file in that folder. The returned closer flushes and
// closes the file and is safe to call when no file is used.
func New(cfg config.LogConfig, appName string) (zerolog.Logger, io.Closer) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var (
		out    io.Writer = os.Stdout
		closer io.Closer = nopCloser{}
	)

	if folder := strings.TrimSpace(cfg.Folder); folder != "" {
		name := "main"
		if cfg.InstanceName != "" {
			name = cfg.InstanceName
		}
		file := &lumberjack.Logger{
			Filename:   fmt.Sprintf("%s/%s.log", strings.TrimRight(folder, "/"), name),
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		}
		out = zerolog.MultiLevelWriter(file, os.Stdout)
		closer = file
	}

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	l := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("app", appName).
		Logger()
	return l, closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
