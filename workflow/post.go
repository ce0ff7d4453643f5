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

// ExecutePostCreationWorkflow publishes a post with optional media
// attachments. The media step is recorded as skipped when no media is
// supplied.
func (o *Orchestrator) ExecutePostCreationWorkflow(ctx context.Context, content string, media []string) (*model.PostResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, model.ValidationError{Field: "content", Reason: "post content must not be empty"}
	}
	if err := o.ensureSession(ctx); err != nil {
		return nil, err
	}
	res := &model.PostResult{
		WorkflowId:    uuid.New().String(),
		ContentLength: len(content),
		StartedAt:     o.ledger.Now(),
	}
	logger.Info("post creation workflow started",
		zap.String("workflowId", res.WorkflowId),
		zap.Int("contentLength", res.ContentLength),
		zap.Int("mediaCount", len(media)))

	err := o.runStep(ctx, &res.Steps, model.STEP_POST_INTERFACE_NAVIGATION, false, func(ctx context.Context) error {
		return o.navigator.OpenPostComposer(ctx)
	})
	if err != nil {
		return res, err
	}

	err = o.runStep(ctx, &res.Steps, model.STEP_CONTENT_COMPOSITION, false, func(ctx context.Context) error {
		editor, err := o.navigator.Locate(ctx, nav.SelectorPostEditor)
		if err != nil {
			return err
		}
		return o.navigator.TypeInto(ctx, editor, content, "post_editor")
	})
	if err != nil {
		return res, err
	}

	if len(media) == 0 {
		skipStep(&res.Steps, model.STEP_MEDIA_ATTACHMENT)
	} else {
		err = o.runStep(ctx, &res.Steps, model.STEP_MEDIA_ATTACHMENT, false, func(ctx context.Context) error {
			for _, path := range media {
				input, err := o.navigator.Locate(ctx, nav.SelectorMediaInput)
				if err != nil {
					return err
				}
				if err := o.navigator.TypeInto(ctx, input, path, "media_input"); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return res, err
		}
		res.MediaCount = len(media)
	}

	err = o.runStep(ctx, &res.Steps, model.STEP_CONTENT_REVIEW, false, func(ctx context.Context) error {
		// read the composed text back off the page before publishing
		if _, err := o.navigator.Locate(ctx, nav.SelectorPostEditor); err != nil {
			return err
		}
		if _, err := o.driver.Evaluate(ctx,
			`document.querySelector("`+nav.SelectorPostEditor+`").innerText.length`); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return res, err
	}

	if err := o.awaitApproval(ctx, res.WorkflowId, "post", summarize(content)); err != nil {
		res.Steps = append(res.Steps, model.WorkflowStep{Step: model.STEP_POST_PUBLICATION, Status: model.STEP_FAILED})
		return res, err
	}

	err = o.runStep(ctx, &res.Steps, model.STEP_POST_PUBLICATION, true, func(ctx context.Context) error {
		publish, err := o.navigator.Locate(ctx, nav.SelectorPostButton)
		if err != nil {
			return err
		}
		if err := o.navigator.Click(ctx, publish, "publish_post"); err != nil {
			return err
		}
		if _, err := o.navigator.Locate(ctx, nav.SelectorPostSuccessToast); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return res, err
	}

	if postURL, err := o.driver.CurrentURL(ctx); err == nil {
		res.PostURL = postURL
	}
	res.PublishStatus = "published"
	res.CompletedAt = o.ledger.Now()
	o.ledger.Record(model.ACTION_POST_WORKFLOW_COMPLETED, map[string]any{
		"workflowId":    res.WorkflowId,
		"contentLength": res.ContentLength,
		"mediaCount":    res.MediaCount,
		"steps":         len(res.Steps),
	})
	logger.Info("post creation workflow completed", zap.String("workflowId", res.WorkflowId))
	return res, nil
}
