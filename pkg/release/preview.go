package release

import (
	"context"

	vcsstatus "github.com/relstage/relstage/pkg/vcs/status"
)

// Preview computes what Run would do without touching the repository:
// the resolved next version, the target tag, the pre-release tags due
// for removal and, when a history rewrite is requested, the commits
// that would be dropped. An unsafe history is reported as the error
// Run would fail with.
func (op *Operation) Preview(ctx context.Context) (Result, error) {
	var result Result

	op.step(&result, StepValidating)
	_, err := op.validate(ctx, &result)
	if err != nil {
		return result, err
	}

	op.step(&result, StepResolving)
	tags, prefix, err := op.resolve(ctx, &result)
	if err != nil {
		return result, err
	}
	result.RemovedTags = PlanRemovals(result.Previous, result.Next, prefix, tags)

	if op.settings.DropPrereleases && result.Previous.IsPrerelease() && !result.Next.IsPrerelease() {
		op.step(&result, StepCheckingHistory)
		plan, err := CheckHistory(ctx, op.repo, result.Previous, prefix, result.Manifest, tags)
		if err != nil {
			return result, err
		}
		result.DroppedCommits = plan.Commits
	}
	return result, nil
}

// TagCurrent tags HEAD with the version already declared in the
// manifest, without bumping anything, and pushes the tag. It refuses
// to reuse an existing tag name.
func (op *Operation) TagCurrent(ctx context.Context) (Result, error) {
	var result Result

	op.step(&result, StepValidating)
	_, err := op.validate(ctx, &result)
	if err != nil {
		return result, err
	}

	op.step(&result, StepResolving)
	tags, err := op.repo.ListTags(ctx)
	if err != nil {
		return result, err
	}
	prefix := op.settings.TagPrefix
	if prefix == "" {
		prefix = DetectPrefix(tags)
	}
	result.Next = result.Previous
	result.Tag = prefix + result.Previous.String()
	exists, err := op.repo.TagExists(ctx, result.Tag)
	if err != nil {
		return result, err
	}
	if exists {
		return result, vcsstatus.ErrTagExists.WrapMessage("tag %s already exists", result.Tag)
	}

	op.step(&result, StepTagging)
	if err := op.repo.CreateTag(ctx, result.Tag, renderMessage(op.settings.TagMessage, &result)); err != nil {
		return result, op.partial(&result, err)
	}

	op.step(&result, StepPushing)
	if op.settings.SkipPush {
		op.l.Info("push skipped")
	} else {
		remote, err := op.repo.HasRemote(ctx)
		if err != nil {
			return result, op.partial(&result, err)
		}
		if remote {
			if err := op.repo.PushTags(ctx); err != nil {
				return result, op.partial(&result, err)
			}
			result.Pushed = true
		} else {
			op.l.Warn("no remote configured, tag not pushed")
		}
	}

	op.step(&result, StepDone)
	return result, nil
}
