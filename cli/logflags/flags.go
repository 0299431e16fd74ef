package logflags

import (
	"flag"

	"github.com/brimdata/zavro/pkg/logger"
	"go.uber.org/zap"
)

type Flags struct {
	Config logger.Config
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	fs.BoolVar(&f.Config.DevMode, "log.devmode", false, "development logging (dpanic level entries panic)")
	f.Config.Level = zap.WarnLevel
	fs.Var(&f.Config.Level, "log.level", "minimum level logged (debug shows header and block events)")
	fs.StringVar(&f.Config.Path, "log.path", "stderr", "log destination: stderr, stdout, /dev/null, or a file path")
	f.Config.Mode = logger.FileModeTruncate
	fs.Var(&f.Config.Mode, "log.filemode", "how a log file is opened: append, truncate, or rotate")
	r := logger.DefaultRotation
	fs.IntVar(&f.Config.Rotation.MaxSizeMiB, "log.maxsize", r.MaxSizeMiB, "size in MiB at which a rotated log file is rotated")
	fs.IntVar(&f.Config.Rotation.MaxBackups, "log.maxbackups", r.MaxBackups, "number of rotated log files kept")
	fs.IntVar(&f.Config.Rotation.MaxAgeDays, "log.maxage", r.MaxAgeDays, "days a rotated log file is kept")
	f.Config.Rotation.Compress = r.Compress
}

func (f *Flags) Open() (*zap.Logger, error) {
	return logger.New(f.Config)
}
