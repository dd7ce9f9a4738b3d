package tui

import (
	"context"
	"errors"

	"github.com/goliatone/go-intake/pkg/render"
	"github.com/goliatone/go-intake/pkg/submission"
)

// Session prompts for every field, submits through controller and prints the
// outcome. After each attempt the user may edit and submit again. It returns
// the last terminal snapshot; ErrAborted when the user interrupts a prompt.
func (r *Renderer) Session(ctx context.Context, controller *submission.Controller) (submission.Snapshot, error) {
	if controller == nil {
		return submission.Snapshot{}, ErrControllerRequired
	}

	var last submission.Snapshot
	for {
		if err := r.collect(ctx, controller); err != nil {
			return last, err
		}

		done, err := controller.Start(ctx)
		if err != nil {
			if errors.Is(err, submission.ErrIncompleteForm) {
				if err := r.driver.Info(ctx, r.theme.ErrorPrefix+"All fields are required."); err != nil {
					return last, err
				}
				continue
			}
			return last, err
		}

		if err := r.driver.Info(ctx, r.theme.InfoPrefix+submission.LabelProcessing); err != nil {
			return last, err
		}

		select {
		case last = <-done:
		case <-ctx.Done():
			return controller.Snapshot(), ctx.Err()
		}

		out, err := r.Render(ctx, r.project(last), render.RenderOptions{})
		if err != nil {
			return last, err
		}
		if err := r.driver.Info(ctx, string(out)); err != nil {
			return last, err
		}

		again, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: r.theme.PromptPrefix + "Submit again?",
			Default: last.Status == submission.StatusError,
		})
		if err != nil {
			return last, err
		}
		if !again {
			return last, nil
		}
	}
}

func (r *Renderer) collect(ctx context.Context, controller *submission.Controller) error {
	view := r.project(controller.Snapshot())
	for _, field := range view.Fields {
		cfg := InputConfig{
			Message:  r.theme.PromptPrefix + field.Label,
			Default:  field.Value,
			Help:     field.Help,
			Required: field.Required,
		}

		prompt := r.driver.Input
		if field.Secret {
			prompt = r.driver.Password
		}
		value, err := prompt(ctx, cfg)
		if err != nil {
			return err
		}
		if err := controller.UpdateByName(field.Name, value); err != nil {
			return err
		}
	}
	return nil
}
