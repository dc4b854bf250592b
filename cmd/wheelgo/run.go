package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"wheelgo/internal/config"
	"wheelgo/internal/core"
	"wheelgo/internal/hook"
	"wheelgo/internal/inject"
	"wheelgo/internal/ipc"
	"wheelgo/internal/logging"
	"wheelgo/internal/wservice"
)

var (
	logFormat string
	logLevel  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Install the hook and start emulating scroll gestures",
	RunE: func(cmd *cobra.Command, args []string) error {
		if wservice.IsWindowsService() {
			return wservice.Run(func() (func(), error) {
				rt, err := startRuntime()
				if err != nil {
					return nil, err
				}
				return rt.stop, nil
			})
		}
		return runForeground()
	},
}

func init() {
	runCmd.Flags().StringVar(&logFormat, "log-format", "console", "log output format: console or json")
	runCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
}

// runtimeHandles bundles everything runForeground/the service Execute
// callback need to shut down cleanly, in order: unhook first, then
// cancel the core's context, then close the control listener.
type runtimeHandles struct {
	h         *hook.Hook
	c         *core.Core
	ipcSrv    *ipc.Server
	cfgMgr    *config.Manager
	stopWatch func()
}

func (rt *runtimeHandles) stop() {
	rt.h.Uninstall()
	rt.c.Stop()
	if rt.ipcSrv != nil {
		rt.ipcSrv.Close()
	}
	if rt.stopWatch != nil {
		rt.stopWatch()
	}
	logging.Sync()
}

// coreHandler adapts core.Core + config.Manager to ipc.Handler. Exit
// is process-lifecycle, not core-lifecycle, so it lives here rather
// than on Core itself.
type coreHandler struct {
	c      *core.Core
	cfgMgr *config.Manager
	quit   chan struct{}
}

func (h *coreHandler) Exit()              { close(h.quit) }
func (h *coreHandler) SetPassMode(b bool) { h.c.SetPassMode(b) }
func (h *coreHandler) PassMode() bool     { return h.c.PassMode() }
func (h *coreHandler) Reload() error      { return h.cfgMgr.Load() }
func (h *coreHandler) Reset()             { h.c.Reset() }

func startRuntime() (*runtimeHandles, error) {
	if err := logging.Init(logFormat, logLevel); err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	cfgMgr, err := config.NewManager()
	if err != nil {
		return nil, fmt.Errorf("create config manager: %w", err)
	}
	if err := cfgMgr.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	sink := inject.NewSink()
	mods := hook.NewModifierProbe()
	c := core.New(cfgMgr, sink, mods)

	c.Start(context.Background())

	h := hook.New()
	if err := h.Install(c); err != nil {
		c.Stop()
		return nil, fmt.Errorf("install hook: %w", err)
	}

	quit := make(chan struct{})
	handler := &coreHandler{c: c, cfgMgr: cfgMgr, quit: quit}
	ipcSrv, err := ipc.Listen(handler)
	if err != nil {
		log.Warnw("control channel unavailable, continuing without it", "error", err)
		ipcSrv = nil
	} else {
		go func() {
			if err := ipcSrv.Serve(); err != nil {
				log.Warnw("control channel stopped", "error", err)
			}
		}()
	}

	stopWatch, err := cfgMgr.Watch()
	if err != nil {
		log.Warnw("config file watch unavailable, edits require a manual reload", "error", err)
		stopWatch = func() {}
	}

	rt := &runtimeHandles{h: h, c: c, ipcSrv: ipcSrv, cfgMgr: cfgMgr, stopWatch: stopWatch}

	go func() {
		<-quit
		rt.stop()
		os.Exit(0)
	}()

	log.Infow("wheelgo started", "trigger", cfgMgr.Get().Trigger)
	return rt, nil
}

func runForeground() error {
	rt, err := startRuntime()
	if err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Infow("shutting down")
	rt.stop()
	time.Sleep(50 * time.Millisecond) // let the injector drain its last batch
	return nil
}
