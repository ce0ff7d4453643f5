package workflow

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/mohitgarg/socialflow/logger"
	"github.com/mohitgarg/socialflow/model"
	"github.com/mohitgarg/socialflow/nav"
	"go.uber.org/zap"
)

// ExecuteMessagingWorkflow sends a direct message to the profile. On
// failure the partial result carries the steps that did run, together
// with the classified error.
func (o *Orchestrator) ExecuteMessagingWorkflow(ctx context.Context, profileId string, content string) (*model.MessagingResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, model.ValidationError{Field: "content", Reason: "message content must not be empty"}
	}
	if err := o.ensureSession(ctx); err != nil {
		return nil, err
	}
	res := &model.MessagingResult{
		WorkflowId:         uuid.New().String(),
		RecipientProfileId: profileId,
		MessageLength:      len(content),
		StartedAt:          o.ledger.Now(),
	}
	logger.Info("messaging workflow started",
		zap.String("workflowId", res.WorkflowId),
		zap.String("profileId", profileId),
		zap.Int("messageLength", res.MessageLength))

	err := o.runStep(ctx, &res.Steps, model.STEP_PROFILE_NAVIGATION, false, func(ctx context.Context) error {
		profileURL, err := o.navigator.ToProfile(ctx, profileId)
		if err != nil {
			return err
		}
		res.RecipientProfileId = nav.ProfileIdFromURL(profileURL)
		return nil
	})
	if err != nil {
		return res, err
	}

	err = o.runStep(ctx, &res.Steps, model.STEP_MESSAGING_INTERFACE, false, func(ctx context.Context) error {
		return o.navigator.OpenMessageThread(ctx, res.RecipientProfileId)
	})
	if err != nil {
		return res, err
	}

	err = o.runStep(ctx, &res.Steps, model.STEP_MESSAGE_COMPOSITION, false, func(ctx context.Context) error {
		composer, err := o.navigator.Locate(ctx, nav.SelectorMessageComposer)
		if err != nil {
			return err
		}
		return o.navigator.TypeInto(ctx, composer, content, "message_composer")
	})
	if err != nil {
		return res, err
	}

	if err := o.awaitApproval(ctx, res.WorkflowId, "message", summarize(content)); err != nil {
		res.Steps = append(res.Steps, model.WorkflowStep{Step: model.STEP_MESSAGE_DELIVERY, Status: model.STEP_FAILED})
		return res, err
	}

	err = o.runStep(ctx, &res.Steps, model.STEP_MESSAGE_DELIVERY, true, func(ctx context.Context) error {
		send, err := o.navigator.Locate(ctx, nav.SelectorMessageSendButton)
		if err != nil {
			return err
		}
		if err := o.navigator.Click(ctx, send, "send_message"); err != nil {
			return err
		}
		// confirm delivery by reading the sent receipt back off the page
		if _, err := o.navigator.Locate(ctx, nav.SelectorMessageSentReceipt); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return res, err
	}

	res.MessageId = uuid.New().String()
	res.DeliveryStatus = "delivered"
	res.CompletedAt = o.ledger.Now()
	o.ledger.Record(model.ACTION_MESSAGE_WORKFLOW_COMPLETED, map[string]any{
		"workflowId":    res.WorkflowId,
		"recipient":     res.RecipientProfileId,
		"messageLength": res.MessageLength,
		"steps":         len(res.Steps),
	})
	logger.Info("messaging workflow completed",
		zap.String("workflowId", res.WorkflowId),
		zap.String("messageId", res.MessageId))
	return res, nil
}
