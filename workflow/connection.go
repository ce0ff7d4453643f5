package workflow

import (
	"context"

	"github.com/google/uuid"
	"github.com/mohitgarg/socialflow/logger"
	"github.com/mohitgarg/socialflow/model"
	"github.com/mohitgarg/socialflow/nav"
	"go.uber.org/zap"
)

// ExecuteConnectionWorkflow sends a connection request to the profile,
// optionally with a personal note. A profile that is already connected
// or pending fails fast before any connect-button interaction.
func (o *Orchestrator) ExecuteConnectionWorkflow(ctx context.Context, profileId string, note string) (*model.ConnectionResult, error) {
	if err := o.ensureSession(ctx); err != nil {
		return nil, err
	}
	res := &model.ConnectionResult{
		WorkflowId: uuid.New().String(),
		ProfileId:  profileId,
		NoteLength: len(note),
		StartedAt:  o.ledger.Now(),
	}
	logger.Info("connection workflow started",
		zap.String("workflowId", res.WorkflowId),
		zap.String("profileId", profileId))

	err := o.runStep(ctx, &res.Steps, model.STEP_PROFILE_NAVIGATION, false, func(ctx context.Context) error {
		profileURL, err := o.navigator.ToProfile(ctx, profileId)
		if err != nil {
			return err
		}
		res.ProfileId = nav.ProfileIdFromURL(profileURL)
		return nil
	})
	if err != nil {
		return res, err
	}

	err = o.runStep(ctx, &res.Steps, model.STEP_CONNECTION_STATUS_CHECK, false, func(ctx context.Context) error {
		connected, err := o.navigator.ConnectionStatus(ctx, res.ProfileId)
		if err != nil {
			return err
		}
		if connected {
			return model.AlreadyConnectedError{ProfileId: res.ProfileId}
		}
		return nil
	})
	if err != nil {
		return res, err
	}

	err = o.runStep(ctx, &res.Steps, model.STEP_CONNECT_BUTTON_CLICK, false, func(ctx context.Context) error {
		return o.navigator.ClickConnect(ctx, res.ProfileId)
	})
	if err != nil {
		return res, err
	}

	if note == "" {
		skipStep(&res.Steps, model.STEP_MESSAGE_ADDITION)
	} else {
		err = o.runStep(ctx, &res.Steps, model.STEP_MESSAGE_ADDITION, false, func(ctx context.Context) error {
			addNote, err := o.navigator.Locate(ctx, nav.SelectorAddNoteButton)
			if err != nil {
				return err
			}
			if err := o.navigator.Click(ctx, addNote, "add_note"); err != nil {
				return err
			}
			textarea, err := o.navigator.Locate(ctx, nav.SelectorNoteTextarea)
			if err != nil {
				return err
			}
			return o.navigator.TypeInto(ctx, textarea, note, "connection_note")
		})
		if err != nil {
			return res, err
		}
	}

	if err := o.awaitApproval(ctx, res.WorkflowId, "connection", res.ProfileId); err != nil {
		res.Steps = append(res.Steps, model.WorkflowStep{Step: model.STEP_REQUEST_SUBMISSION, Status: model.STEP_FAILED})
		return res, err
	}

	err = o.runStep(ctx, &res.Steps, model.STEP_REQUEST_SUBMISSION, true, func(ctx context.Context) error {
		send, err := o.navigator.Locate(ctx, nav.SelectorSendInviteButton)
		if err != nil {
			return err
		}
		if err := o.navigator.Click(ctx, send, "send_invite"); err != nil {
			return err
		}
		// confirm the request landed: the connect affordance flips to pending
		if _, err := o.navigator.Locate(ctx, nav.SelectorPendingButton); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return res, err
	}

	res.ConnectionStatus = "sent"
	res.CompletedAt = o.ledger.Now()
	o.ledger.Record(model.ACTION_CONNECTION_WORKFLOW_COMPLETED, map[string]any{
		"workflowId": res.WorkflowId,
		"profileId":  res.ProfileId,
		"noteLength": res.NoteLength,
		"steps":      len(res.Steps),
	})
	logger.Info("connection workflow completed", zap.String("workflowId", res.WorkflowId))
	return res, nil
}
