package agent

import (
	"context"
	"os"

	"github.com/Iron-Ham/shortcuts/internal/errors"
	"github.com/Iron-Ham/shortcuts/internal/watch"
)

// SyncOnStart pulls the store from the cloud when pulling is enabled.
// Failures are reported but do not stop the run.
func (p *Processor) SyncOnStart(ctx context.Context) {
	if p.syncer == nil || !p.pull {
		return
	}
	p.logger.Info("syncing cloud to local on startup")
	if _, err := p.syncer.Pull(ctx, p.storePath); err != nil {
		p.logger.Warn("startup pull failed", "error", err)
		p.say(p.formatter.Warning("Cloud pull failed: " + err.Error()))
	}
}

// ProcessFile processes the command written in path, then empties the file.
// An empty file is left alone.
func (p *Processor) ProcessFile(ctx context.Context, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.NewAgentError("command file is empty", errors.ErrEmptyCommand).WithStage("input")
	}

	res, procErr := p.Process(ctx, string(data))
	if err := os.WriteFile(path, nil, 0644); err != nil {
		p.logger.Warn("cannot clear command file", "path", path, "error", err)
	} else {
		p.logger.Info("cleared command file", "path", path)
	}
	return res, procErr
}

// Watch processes path every time it is saved, until it is deleted or ctx
// is cancelled. The file must exist when the watch starts.
func (p *Processor) Watch(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		p.say(p.formatter.Failure("ERROR: " + path + " not found. Please create it and restart."))
		return errors.NewNotFoundError("command file", path).WithCause(err)
	}

	w, err := watch.New(path, watch.WithLogger(p.logger))
	if err != nil {
		return err
	}
	removed := make(chan struct{}, 1)
	w.OnEvent(func(ev watch.Event) {
		if ev == watch.Removed {
			select {
			case removed <- struct{}{}:
			default:
			}
			return
		}
		if _, err := p.ProcessFile(ctx, path); err != nil && !errors.Is(err, errors.ErrEmptyCommand) {
			p.logger.Warn("processing failed", "path", path, "error", err)
		}
	})

	p.logger.Info("watching for new commands", "path", path)
	p.say(p.formatter.Info("Watching for new commands in '" + path + "'..."))
	w.Start()
	defer w.Stop()

	select {
	case <-ctx.Done():
		p.logger.Info("watch stopped", "path", path)
		return nil
	case <-removed:
		p.logger.Warn("command file deleted, stopping watch", "path", path)
		p.say(p.formatter.Warning("WARNING: " + path + " was deleted. Stopping watch."))
		return nil
	}
}

// Manual asks for a command on the prompter and processes it.
func (p *Processor) Manual(ctx context.Context) (*Result, error) {
	if p.prompter == nil {
		return nil, errors.NewAgentError("no prompter configured", errors.ErrInvalidInput).WithStage("input")
	}
	raw, err := p.prompter.Ask("Please enter the command to process")
	if err != nil {
		return nil, err
	}
	return p.Process(ctx, raw)
}
