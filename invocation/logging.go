package invocation

import (
	"log/slog"
	"time"

	"github.com/dzonerzy/go-cmdline/cmdline"
	"github.com/dzonerzy/go-cmdline/internal/pool"
)

// requestInfo describes one invocation while it is logged.
type requestInfo struct {
	command string
	args    []string
	start   time.Time
}

var requestInfoPool = pool.NewPoolWithReset(
	func() *requestInfo {
		return &requestInfo{args: make([]string, 0, 8)}
	},
	func(info *requestInfo) {
		info.command = ""
		info.args = info.args[:0]
		info.start = time.Time{}
	},
)

// logging writes to logger, or to the slog default logger of the moment
// when logger is nil.
func logging(logger *slog.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ic *cmdline.InvocationContext) error {
			log := logger
			if log == nil {
				log = slog.Default()
			}
			info := requestInfoPool.Get()
			defer requestInfoPool.Put(info)

			info.command = commandName(ic)
			for _, tok := range ic.ParseResult().Tokens() {
				info.args = append(info.args, tok.Value)
			}
			info.start = time.Now()

			log.Debug("command started", "command", info.command, "args", info.args)

			err := next(ic)

			elapsed := time.Since(info.start)
			if err != nil {
				log.Error("command failed",
					"command", info.command,
					"duration", elapsed,
					"exit_code", exitCodesOf(ic).Resolve(err),
					"error", err)
				return err
			}
			log.Info("command finished",
				"command", info.command,
				"duration", elapsed,
				"exit_code", ic.ExitCode)
			return nil
		}
	}
}
