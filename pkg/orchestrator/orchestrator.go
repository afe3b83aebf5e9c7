// Package orchestrator drives package acquisition, removal and launching on top of the
// registry, fetcher, extractor, installer, resolver and launcher.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/glorpus-work/emulatorx/internal/logger"
	"github.com/glorpus-work/emulatorx/pkg/download"
	pkgerrors "github.com/glorpus-work/emulatorx/pkg/errors"
	"github.com/glorpus-work/emulatorx/pkg/hooks"
	"github.com/glorpus-work/emulatorx/pkg/registry"
	"golang.org/x/sync/errgroup"
)

// Orchestrator ties the acquisition collaborators together.
type Orchestrator struct {
	Registry   Registry
	DL         Fetcher
	Extractor  Extractor
	Installer  Installer
	Resolver   ExecResolver
	Launcher   Launcher
	HookRunner HookRunner // optional
	Hooks      Hooks      // Hooks for progress and event notifications
	Options    Options
}

func emit(h Hooks, e Event) {
	if h.OnEvent != nil {
		h.OnEvent(e)
	}
}

func (o *Orchestrator) fail(id string, err error) error {
	emit(o.Hooks, Event{Phase: PhaseError, ID: id, Msg: err.Error()})
	return err
}

// Acquire downloads, extracts and installs the package id.
// A failed extraction or post-install hook removes the package directory again but keeps the
// staged archive for inspection. A successful run removes the staged archive.
func (o *Orchestrator) Acquire(ctx context.Context, id string) error {
	emit(o.Hooks, Event{Phase: PhaseResolving, ID: id})
	d, err := o.Registry.Resolve(id)
	if err != nil {
		return o.fail(id, err)
	}

	staging := filepath.Join(o.Options.StagingDir, d.StagingName())
	emit(o.Hooks, Event{Phase: PhaseDownloading, ID: id, Msg: d.SourceURL})
	n, err := o.DL.FetchArchive(ctx, d.SourceURL, staging, download.FetchOptions{
		Label:    d.ID,
		MinSize:  o.Options.MinArchiveSize,
		Progress: o.Hooks.OnProgress,
	})
	if err != nil {
		return o.fail(id, pkgerrors.Wrapf(err, "failed to download %s", d.ID))
	}
	logger.Debug("archive staged", logger.Fields{"package": d.ID, "path": staging, "bytes": n})

	if err := o.Installer.ClearForReinstall(ctx, d); err != nil {
		return o.fail(id, pkgerrors.Wrapf(err, "failed to prepare %s", d.ID))
	}

	dest := o.Installer.PackagePath(d)
	emit(o.Hooks, Event{Phase: PhaseExtracting, ID: id, Msg: dest})
	if err := o.Extractor.Extract(ctx, staging, d.ArchiveKind, dest); err != nil {
		o.rollback(ctx, d)
		return o.fail(id, pkgerrors.Wrapf(err, "failed to extract %s", d.ID))
	}

	if o.HookRunner != nil {
		emit(o.Hooks, Event{Phase: PhaseHooks, ID: id, Msg: string(hooks.PostInstall)})
		if err := o.HookRunner.Run(ctx, hooks.PostInstall, o.hookContext(d)); err != nil {
			o.rollback(ctx, d)
			return o.fail(id, err)
		}
	}

	if err := os.Remove(staging); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("could not remove staged archive", logger.Fields{"path": staging, "error": err})
	}

	emit(o.Hooks, Event{Phase: PhaseDone, ID: id, Msg: dest})
	return nil
}

// AcquireAll acquires several packages, at most limit at a time.
// Every failure is reported; one failing package does not stop the others.
func (o *Orchestrator) AcquireAll(ctx context.Context, ids []string, limit int) error {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil
	}
	if limit < 1 {
		limit = 1
	}

	mu := &sync.Mutex{}
	var errs []error

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(len(ids), limit))
	for _, id := range ids {
		g.Go(func() error {
			if err := o.Acquire(gctx, id); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", id, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

// Uninstall runs the pre-remove hook and removes the package directory.
func (o *Orchestrator) Uninstall(ctx context.Context, id string) error {
	emit(o.Hooks, Event{Phase: PhaseResolving, ID: id})
	d, err := o.Registry.Resolve(id)
	if err != nil {
		return o.fail(id, err)
	}

	if o.HookRunner != nil && o.Installer.IsInstalled(d) {
		emit(o.Hooks, Event{Phase: PhaseHooks, ID: id, Msg: string(hooks.PreRemove)})
		if err := o.HookRunner.Run(ctx, hooks.PreRemove, o.hookContext(d)); err != nil {
			return o.fail(id, err)
		}
	}

	emit(o.Hooks, Event{Phase: PhaseRemoving, ID: id, Msg: o.Installer.PackagePath(d)})
	if err := o.Installer.Uninstall(ctx, d); err != nil {
		return o.fail(id, err)
	}
	emit(o.Hooks, Event{Phase: PhaseDone, ID: id})
	return nil
}

// Run launches the installed package and returns the pid of the started process.
func (o *Orchestrator) Run(ctx context.Context, id string, args ...string) (int, error) {
	d, err := o.Registry.Resolve(id)
	if err != nil {
		return 0, err
	}
	exe, err := o.Resolver.Resolve(d, o.Options.Platform)
	if err != nil {
		return 0, err
	}
	return o.Launcher.Launch(ctx, exe, args...)
}

// Status reports the installation state of every registry entry in registry order.
func (o *Orchestrator) Status(ctx context.Context) []Status {
	all := o.Registry.All()
	out := make([]Status, 0, len(all))
	for _, d := range all {
		if ctx.Err() != nil {
			break
		}
		out = append(out, Status{
			Name:        d.ID,
			DisplayName: d.DisplayName,
			Installed:   o.Installer.IsInstalled(d),
			DirKey:      d.DirKey,
			Path:        o.Installer.PackagePath(d),
			Version:     d.Version,
			Console:     d.Console,
		})
	}
	return out
}

// InstallPath returns the install root, creating it if needed.
func (o *Orchestrator) InstallPath() (string, error) {
	return o.Installer.Root()
}

func (o *Orchestrator) rollback(ctx context.Context, d registry.Descriptor) {
	// the caller's ctx may already be cancelled; cleanup must still run
	if err := o.Installer.Uninstall(context.WithoutCancel(ctx), d); err != nil && !errors.Is(err, pkgerrors.ErrNotInstalled) {
		logger.Warn("rollback failed", logger.Fields{"package": d.ID, "error": err})
	}
}

func (o *Orchestrator) hookContext(d registry.Descriptor) hooks.Context {
	return hooks.Context{
		PackageName:    d.ID,
		PackageVersion: d.Version,
		DirKey:         d.DirKey,
		InstallPath:    o.Installer.PackagePath(d),
		Platform:       o.Options.Platform,
		Vars:           o.Options.HookVars,
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		key := strings.ToLower(strings.TrimSpace(id))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, id)
	}
	return out
}
